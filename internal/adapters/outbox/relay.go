package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/sis-portal/web/internal/config"
	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
	"github.com/sis-portal/web/internal/pkg/logger"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	healthCheckStaleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100
)

type outboxRecord struct {
	ID        string
	EventType string
	Payload   []byte
}

// Relay listens for PostgreSQL NOTIFY signals on the outbox channel and
// publishes audit events to the message broker.
type Relay struct {
	db        *sql.DB
	publisher ports.AuditEventPublisher
	dbURL     string
	dbCB      *gobreaker.CircuitBreaker

	mu            sync.RWMutex
	lastProcessed time.Time
	healthy       bool
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.AuditEventPublisher) *Relay {
	return &Relay{
		db:            db,
		dbURL:         dbURL,
		publisher:     publisher,
		dbCB:          config.NewCircuitBreaker(config.BreakerRelayPostgreSQL),
		lastProcessed: time.Now(),
		healthy:       true,
	}
}

// IsHealthy is the liveness signal: the process is alive and its listener
// is connected. An open breaker does not make the relay unhealthy.
func (r *Relay) IsHealthy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.healthy
}

// IsReady reports whether the relay can process events right now.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}
	return r.healthy
}

func (r *Relay) markProcessed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastProcessed = time.Now()
	r.healthy = true
}

func (r *Relay) setHealthy(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.healthy = v
}

// Start listens and processes events until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Error().Err(err).Msg("outbox relay: listener error")
		}
	}

	listener := pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer listener.Close()

	if err := listener.Listen(outboxChannelName); err != nil {
		return err
	}
	logger.Info().Str("channel", outboxChannelName).Msg("outbox relay: listening for notifications")

	// Catch up on events written while the relay was down
	if err := r.processUnprocessedEvents(ctx); err != nil {
		logger.Error().Err(err).Msg("outbox relay: error processing startup backlog")
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("outbox relay: shutting down")
			return ctx.Err()

		case notification := <-listener.Notify:
			if notification == nil {
				logger.Warn().Msg("outbox relay: received nil notification (reconnecting)")
				r.setHealthy(false)
				continue
			}

			if err := r.processEventByID(ctx, notification.Extra); err != nil {
				logger.Error().Err(err).Str("event_id", notification.Extra).Msg("outbox relay: error processing event")
			} else {
				r.markProcessed()
			}

		case <-ticker.C:
			go listener.Ping()

			// Safety net for missed notifications
			if err := r.processUnprocessedEvents(ctx); err != nil {
				logger.Error().Err(err).Msg("outbox relay: error in periodic processing")
			} else {
				r.markProcessed()
			}
		}
	}
}

func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var rec outboxRecord
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&rec.ID, &rec.EventType, &rec.Payload)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := r.publish(ctx, rec); err != nil {
			return nil, err
		}
		if err := markDone(ctx, tx, rec.ID); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

func (r *Relay) processUnprocessedEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}

		var records []outboxRecord
		for rows.Next() {
			var rec outboxRecord
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				rows.Close()
				return nil, err
			}
			records = append(records, rec)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rec := range records {
			if err := r.publish(ctx, rec); err != nil {
				logger.Error().Err(err).Str("event_id", rec.ID).Msg("outbox relay: failed to publish event")
				continue
			}
			if err := markDone(ctx, tx, rec.ID); err != nil {
				return nil, err
			}
			logger.Debug().Str("event_id", rec.ID).Msg("outbox relay: processed event")
		}

		return nil, tx.Commit()
	})
	return err
}

// publish sends an audit record to the broker. Records of other types and
// undecodable payloads are skipped so they are not retried forever.
func (r *Relay) publish(ctx context.Context, rec outboxRecord) error {
	if rec.EventType != domain.AuditEventType {
		return nil
	}

	var evt domain.AuditEvent
	if err := json.Unmarshal(rec.Payload, &evt); err != nil {
		logger.Warn().Err(err).Str("event_id", rec.ID).Msg("outbox relay: invalid payload")
		return nil
	}
	return r.publisher.PublishAudit(ctx, evt)
}

func markDone(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, id)
	return err
}
