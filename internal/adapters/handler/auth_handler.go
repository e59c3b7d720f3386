package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sis-portal/web/internal/adapters/middleware"
	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	navigation  ports.NavigationService
}

func NewAuthHandler(authService ports.AuthService, navigation ports.NavigationService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		navigation:  navigation,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds := domain.LoginCredentials{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	err := h.authService.Login(r.Context(), middleware.SessionID(r.Context()), creds)
	finish(w, r, "login", err)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.authService.Logout(r.Context(), middleware.SessionID(r.Context()))
	finish(w, r, "logout", err)
}

// Navigate handles a click on a menu item.
func (h *AuthHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	section, err := domain.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		finish(w, r, "navigate", err)
		return
	}
	err = h.navigation.Select(r.Context(), middleware.SessionID(r.Context()), section)
	finish(w, r, "navigate", err)
}
