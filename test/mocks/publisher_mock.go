package mocks

import (
	"context"
	"sync"

	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
)

// MockAuditEventPublisher implements ports.AuditEventPublisher for testing.
// It lets the outbox relay run without a RabbitMQ connection.
type MockAuditEventPublisher struct {
	mu sync.RWMutex

	PublishedEvents []domain.AuditEvent

	// Error injection for testing error scenarios
	PublishError error

	PublishCallCount int
}

var _ ports.AuditEventPublisher = (*MockAuditEventPublisher)(nil)

func NewMockAuditEventPublisher() *MockAuditEventPublisher {
	return &MockAuditEventPublisher{
		PublishedEvents: make([]domain.AuditEvent, 0),
	}
}

func (m *MockAuditEventPublisher) PublishAudit(ctx context.Context, evt domain.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++

	if m.PublishError != nil {
		return m.PublishError
	}

	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of everything published so far.
func (m *MockAuditEventPublisher) GetPublishedEvents() []domain.AuditEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]domain.AuditEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

func (m *MockAuditEventPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}

// Reset clears all tracking data.
func (m *MockAuditEventPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishedEvents = make([]domain.AuditEvent, 0)
	m.PublishError = nil
	m.PublishCallCount = 0
}
