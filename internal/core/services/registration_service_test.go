package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/sis-portal/web/internal/core/domain"
)

func TestRegistrationService_Register(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		auditErr       error
		expectedStatus domain.ResultStatus
		expectedMsg    string
	}{
		{
			name:           "success",
			expectedStatus: domain.StatusSuccess,
			expectedMsg:    "Registration successful",
		},
		{
			name:           "rejected",
			err:            apiError(http.StatusBadRequest, "Invalid keypass"),
			expectedStatus: domain.StatusError,
			expectedMsg:    "Registration failed with status: 400",
		},
		{
			name:           "server error with empty body",
			err:            &domain.APIError{Status: http.StatusInternalServerError},
			expectedStatus: domain.StatusError,
			expectedMsg:    "Registration failed with status: 500",
		},
		{
			name:           "audit store down",
			auditErr:       errors.New("db down"),
			expectedStatus: domain.StatusSuccess,
			expectedMsg:    "Registration successful",
		},
		{
			name:           "rejected while audit store down",
			err:            apiError(http.StatusBadRequest, "Invalid keypass"),
			auditErr:       errors.New("db down"),
			expectedStatus: domain.StatusError,
			expectedMsg:    "Registration failed with status: 400",
		},
		{
			name:           "network failure",
			err:            errors.New("connection refused"),
			expectedStatus: domain.StatusError,
			expectedMsg:    "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			f := newFixture(t)
			f.client.Errors["register"] = tt.err
			f.audit.RecordError = tt.auditErr
			service := NewRegistrationService(f.client, f.store, f.audit)

			req := domain.DefaultRegistration
			req.FirstName = "John"

			// ACT
			err := service.Register(context.Background(), testSessionID, req)

			// ASSERT
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			view := f.session(t).Views.Register
			expectResult(t, view.Result, tt.expectedStatus, tt.expectedMsg)
			if view.Form.FirstName != "John" {
				t.Errorf("expected form to keep submitted name, got %q", view.Form.FirstName)
			}
			if view.Form.Password != "" {
				t.Error("expected password not to be kept")
			}

			call, ok := f.client.LastCall("register")
			if !ok {
				t.Fatal("expected register call")
			}
			if sent := call.Args[0].(domain.RegistrationRequest); sent.Password != domain.DefaultRegistration.Password {
				t.Errorf("expected password to be sent, got %q", sent.Password)
			}
		})
	}
}

func TestRegistrationService_UnknownSession(t *testing.T) {
	f := newFixture(t)
	service := NewRegistrationService(f.client, f.store, f.audit)

	err := service.Register(context.Background(), "nope", domain.DefaultRegistration)

	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if f.client.CallCount("register") != 0 {
		t.Error("expected no upstream call")
	}
}
