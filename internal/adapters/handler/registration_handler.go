package handler

import (
	"net/http"

	"github.com/sis-portal/web/internal/adapters/middleware"
	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
)

type RegistrationHandler struct {
	registrationService ports.RegistrationService
}

func NewRegistrationHandler(registrationService ports.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
	}
}

// Register forwards the form fields as typed; the upstream validates them.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	req := domain.RegistrationRequest{
		FirstName:   r.PostFormValue("firstName"),
		LastName:    r.PostFormValue("lastName"),
		Email:       r.PostFormValue("email"),
		PhoneNumber: r.PostFormValue("phoneNumber"),
		BirthDate:   r.PostFormValue("birthDate"),
		Password:    r.PostFormValue("password"),
		RoleKeypass: r.PostFormValue("roleKeypass"),
	}

	err := h.registrationService.Register(r.Context(), middleware.SessionID(r.Context()), req)
	finish(w, r, "register", err)
}
