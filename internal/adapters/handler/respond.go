package handler

import (
	"errors"
	"net/http"

	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/pkg/logger"
)

// redirectHome finishes a form post. The outcome is already in the session,
// so the browser just reloads the page.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// finish maps a service error to a response. Upstream failures never get
// here; they are view state.
func finish(w http.ResponseWriter, r *http.Request, action string, err error) {
	if err == nil {
		redirectHome(w, r)
		return
	}

	logger.Error().Err(err).Str("action", action).Msg("action failed")
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		// The session expired mid-request; a fresh one is issued on reload.
		redirectHome(w, r)
	case errors.Is(err, domain.ErrUnknownSection):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
	}
}
