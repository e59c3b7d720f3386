package ports

import (
	"context"

	"github.com/sis-portal/web/internal/core/domain"
)

type AuditEventPublisher interface {
	PublishAudit(ctx context.Context, evt domain.AuditEvent) error
}
