package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
	"github.com/sis-portal/web/internal/pkg/logger"
)

// viewRunner holds what every view service shares: the session store, the
// audit trail and the per-view request sequence.
type viewRunner struct {
	store ports.SessionStore
	audit ports.AuditRecorder
	now   func() time.Time
}

func newViewRunner(store ports.SessionStore, audit ports.AuditRecorder) viewRunner {
	return viewRunner{store: store, audit: audit, now: time.Now}
}

type ticket struct {
	token uint64
	cred  *domain.Credential
}

// begin opens a request for view and snapshots the credential to use.
func (v *viewRunner) begin(ctx context.Context, sessionID string, view domain.ViewKey) (ticket, error) {
	var t ticket
	err := v.store.Update(ctx, sessionID, func(s *domain.Session) error {
		t = ticket{token: s.Begin(view), cred: s.Credential.Clone()}
		return nil
	})
	return t, err
}

// commit applies fn only if t is still the latest request for view.
// Results of superseded or unmounted requests are dropped.
func (v *viewRunner) commit(ctx context.Context, sessionID string, view domain.ViewKey, t ticket, fn func(s *domain.Session)) error {
	return v.store.Update(ctx, sessionID, func(s *domain.Session) error {
		if !s.IsCurrent(view, t.token) {
			logger.Debug().
				Str("session_id", sessionID).
				Str("view", string(view)).
				Uint64("token", t.token).
				Msg("discarding stale view result")
			return nil
		}
		fn(s)
		return nil
	})
}

// record writes an audit event. Failures are logged and never reach the view.
func (v *viewRunner) record(ctx context.Context, sessionID, action string, outcome domain.ResultStatus, err error) {
	if v.audit == nil {
		return
	}
	evt := domain.AuditEvent{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		Action:         action,
		Outcome:        outcome,
		UpstreamStatus: domain.StatusCode(err),
		OccurredAt:     v.now().UTC(),
	}
	if recErr := v.audit.Record(ctx, evt); recErr != nil {
		logger.Error().Err(recErr).Str("action", action).Msg("failed to record audit event")
	}
}

// failure picks the failure variant for a credentialed call.
func failure[T any](err error, message string) domain.Result[T] {
	if errors.Is(err, domain.ErrUnauthenticated) {
		return domain.Unauthenticated[T](message)
	}
	return domain.Failed[T](message)
}

func outcomeOf(err error) domain.ResultStatus {
	switch {
	case err == nil:
		return domain.StatusSuccess
	case errors.Is(err, domain.ErrUnauthenticated):
		return domain.StatusUnauthenticated
	default:
		return domain.StatusError
	}
}
