package services

import (
	"context"
	"fmt"

	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
)

const msgRegistrationSuccess = "Registration successful"

type RegistrationService struct {
	viewRunner
	client ports.SISClient
}

var _ ports.RegistrationService = (*RegistrationService)(nil)

func NewRegistrationService(client ports.SISClient, store ports.SessionStore, audit ports.AuditRecorder) *RegistrationService {
	return &RegistrationService{
		viewRunner: newViewRunner(store, audit),
		client:     client,
	}
}

// Register creates a person account. The form keeps what was submitted,
// except the password.
func (s *RegistrationService) Register(ctx context.Context, sessionID string, req domain.RegistrationRequest) error {
	t, err := s.begin(ctx, sessionID, domain.ViewRegister)
	if err != nil {
		return err
	}

	callErr := s.client.Register(ctx, req)

	result := domain.SuccessNotice(msgRegistrationSuccess)
	if callErr != nil {
		result = domain.Failed[struct{}](registrationFailure(callErr))
	}
	s.record(ctx, sessionID, "register", result.Status, callErr)

	return s.commit(ctx, sessionID, domain.ViewRegister, t, func(sess *domain.Session) {
		form := req
		form.Password = ""
		sess.Views.Register = domain.RegisterView{Form: form, Result: result}
	})
}

func registrationFailure(err error) string {
	if status := domain.StatusCode(err); status != 0 {
		return fmt.Sprintf("Registration failed with status: %d", status)
	}
	return err.Error()
}
