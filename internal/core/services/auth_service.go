package services

import (
	"context"

	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
	"github.com/sis-portal/web/internal/pkg/logger"
)

const (
	msgLoginSuccess = "Login successful"
	msgLoginFailed  = "Login failed. Please check your username and password."
	msgLoggedOut    = "Logged out."
)

type AuthService struct {
	viewRunner
	client ports.SISClient
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(client ports.SISClient, store ports.SessionStore, audit ports.AuditRecorder) *AuthService {
	return &AuthService{
		viewRunner: newViewRunner(store, audit),
		client:     client,
	}
}

// Login authenticates against the upstream. A 2xx answer whose body is not
// truthy JSON counts as a failed login. Every failure shows the same message.
func (s *AuthService) Login(ctx context.Context, sessionID string, creds domain.LoginCredentials) error {
	t, err := s.begin(ctx, sessionID, domain.ViewLogin)
	if err != nil {
		return err
	}

	res, callErr := s.client.Login(ctx, creds)
	if callErr == nil && !domain.IsTruthyJSON(res.Body) {
		callErr = domain.ErrLoginRejected
	}

	result := domain.SuccessNotice(msgLoginSuccess)
	if callErr != nil {
		logger.Info().Err(callErr).Str("session_id", sessionID).Msg("login failed")
		result = domain.Failed[struct{}](msgLoginFailed)
	}
	s.record(ctx, sessionID, "login", result.Status, callErr)

	// The credential is kept even when the login view has moved on.
	return s.store.Update(ctx, sessionID, func(sess *domain.Session) error {
		if callErr == nil {
			sess.Credential = res.Credential
		}
		if sess.IsCurrent(domain.ViewLogin, t.token) {
			sess.Views.Login = domain.LoginView{Username: creds.Username, Result: result}
		}
		return nil
	})
}

// Logout ends the upstream session and always forgets the local credential.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	t, err := s.begin(ctx, sessionID, domain.ViewLogin)
	if err != nil {
		return err
	}

	var callErr error
	if t.cred != nil {
		callErr = s.client.Logout(ctx, t.cred)
		if callErr != nil {
			logger.Warn().Err(callErr).Str("session_id", sessionID).Msg("upstream logout failed")
		}
	}
	s.record(ctx, sessionID, "logout", outcomeOf(callErr), callErr)

	return s.store.Update(ctx, sessionID, func(sess *domain.Session) error {
		sess.Credential = nil
		sess.Views.Login = domain.LoginView{
			Username: sess.Views.Login.Username,
			Result:   domain.SuccessNotice(msgLoggedOut),
		}
		return nil
	})
}
