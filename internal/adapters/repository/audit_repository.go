package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/sony/gobreaker"

	"github.com/sis-portal/web/internal/config"
	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
	"github.com/sis-portal/web/internal/pkg/logger"
)

// AuditRepository appends audit events to the outbox table. An insert
// trigger notifies the relay.
type AuditRepository struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker
}

// Ensure AuditRepository implements ports.AuditRecorder
var _ ports.AuditRecorder = (*AuditRepository)(nil)

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{
		db: db,
		cb: config.NewCircuitBreaker(config.BreakerAuditStore),
	}
}

func (r *AuditRepository) Record(ctx context.Context, evt domain.AuditEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	_, err = r.cb.Execute(func() (interface{}, error) {
		return r.db.ExecContext(ctx,
			"INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES ($1, $2, $3, $4)",
			evt.ID,
			domain.AuditEventType,
			payload,
			evt.OccurredAt,
		)
	})
	return err
}

// LogRecorder writes audit events to the log when no database is configured.
type LogRecorder struct{}

var _ ports.AuditRecorder = LogRecorder{}

func (LogRecorder) Record(ctx context.Context, evt domain.AuditEvent) error {
	logger.Info().
		Str("event_id", evt.ID).
		Str("session_id", evt.SessionID).
		Str("action", evt.Action).
		Str("outcome", string(evt.Outcome)).
		Int("upstream_status", evt.UpstreamStatus).
		Msg("audit")
	return nil
}
