package ports

import (
	"context"

	"github.com/sis-portal/web/internal/core/domain"
)

// SessionStore keeps server-side sessions. Update runs fn as an atomic
// read-modify-write and may call it more than once on contention.
type SessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Update(ctx context.Context, id string, fn func(s *domain.Session) error) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type AuditRecorder interface {
	Record(ctx context.Context, evt domain.AuditEvent) error
}
