package mocks

import (
	"context"
	"sync"

	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
)

// MockAuditRecorder implements ports.AuditRecorder in memory.
type MockAuditRecorder struct {
	mu sync.Mutex

	Events      []domain.AuditEvent
	RecordError error
}

var _ ports.AuditRecorder = (*MockAuditRecorder)(nil)

func NewMockAuditRecorder() *MockAuditRecorder {
	return &MockAuditRecorder{}
}

func (m *MockAuditRecorder) Record(ctx context.Context, evt domain.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RecordError != nil {
		return m.RecordError
	}
	m.Events = append(m.Events, evt)
	return nil
}

// Actions returns the recorded action names in order.
func (m *MockAuditRecorder) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	actions := make([]string, 0, len(m.Events))
	for _, evt := range m.Events {
		actions = append(actions, evt.Action)
	}
	return actions
}
