package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"

	"github.com/sis-portal/web/internal/config"
	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
)

var ErrPublishNacked = errors.New("broker did not acknowledge audit event")

// AuditPublisher sends audit events to a durable RabbitMQ queue. The channel
// runs in confirm mode; a publish only succeeds once the broker acks it.
type AuditPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	pub   confirmPublisher
	queue string
	cb    *gobreaker.CircuitBreaker
}

// confirmPublisher publishes one message and waits for the broker's
// confirmation.
type confirmPublisher interface {
	publishConfirmed(ctx context.Context, queue string, msg amqp.Publishing) (bool, error)
}

type confirmChannel struct {
	ch *amqp.Channel
}

func (c confirmChannel) publishConfirmed(ctx context.Context, queue string, msg amqp.Publishing) (bool, error) {
	confirm, err := c.ch.PublishWithDeferredConfirmWithContext(
		ctx,
		"",    // default exchange
		queue, // routing key is the queue name
		false, // mandatory
		false, // immediate
		msg,
	)
	if err != nil {
		return false, err
	}
	return confirm.WaitContext(ctx)
}

var _ ports.AuditEventPublisher = (*AuditPublisher)(nil)

func NewAuditPublisher(amqpURL, queue string) (*AuditPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := setupChannel(ch, queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AuditPublisher{
		conn:  conn,
		ch:    ch,
		pub:   confirmChannel{ch: ch},
		queue: queue,
		cb:    config.NewCircuitBreaker(config.BreakerRabbitMQ),
	}, nil
}

func setupChannel(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("enable publisher confirms: %w", err)
	}
	return nil
}

func (p *AuditPublisher) PublishAudit(ctx context.Context, evt domain.AuditEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		acked, err := p.pub.publishConfirmed(ctx, p.queue, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    evt.ID,
			Type:         domain.AuditEventType,
			Timestamp:    evt.OccurredAt,
			Body:         body,
		})
		if err != nil {
			return nil, fmt.Errorf("publish audit event %s: %w", evt.ID, err)
		}
		if !acked {
			return nil, ErrPublishNacked
		}
		return nil, nil
	})
	return err
}

func (p *AuditPublisher) Close() error {
	return errors.Join(p.ch.Close(), p.conn.Close())
}
