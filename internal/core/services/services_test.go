package services

import (
	"context"
	"testing"
	"time"

	"github.com/sis-portal/web/internal/adapters/session"
	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/test/mocks"
)

const testSessionID = "session-1"

type fixture struct {
	client *mocks.MockSISClient
	store  *session.MemoryStore
	audit  *mocks.MockAuditRecorder
}

// newFixture returns a fixture with one logged-in session.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		client: mocks.NewMockSISClient(),
		store:  session.NewMemoryStore(time.Hour),
		audit:  mocks.NewMockAuditRecorder(),
	}

	s := domain.NewSession(testSessionID, time.Now())
	s.Credential = &domain.Credential{Cookies: []domain.CredentialCookie{{Name: "JSESSIONID", Value: "abc"}}}
	if err := f.store.Create(context.Background(), s); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return f
}

func (f *fixture) session(t *testing.T) *domain.Session {
	t.Helper()

	s, err := f.store.Get(context.Background(), testSessionID)
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	return s
}

// bumpOn starts a newer request for view whenever op is called, so the
// result of the running request arrives stale.
func (f *fixture) bumpOn(t *testing.T, op string, view domain.ViewKey) {
	f.client.OnCall = func(called string) {
		if called != op {
			return
		}
		err := f.store.Update(context.Background(), testSessionID, func(s *domain.Session) error {
			s.Begin(view)
			return nil
		})
		if err != nil {
			t.Errorf("failed to bump view: %v", err)
		}
	}
}

func expectResult[T any](t *testing.T, got domain.Result[T], status domain.ResultStatus, message string) {
	t.Helper()

	if got.Status != status {
		t.Errorf("expected status %q, got %q", status, got.Status)
	}
	if got.Message != message {
		t.Errorf("expected message %q, got %q", message, got.Message)
	}
}

func apiError(status int, message string) *domain.APIError {
	return &domain.APIError{Status: status, Message: message, Parsed: true}
}
