package handler

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/sis-portal/web/internal/adapters/middleware"
	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
	"github.com/sis-portal/web/internal/pkg/logger"
)

// TokenIssuer issues CSRF tokens bound to a session.
type TokenIssuer interface {
	Token(sessionID string) (string, error)
}

type PageData struct {
	Section       domain.Section
	Views         domain.Views
	Grid          domain.ScheduleGrid
	Authenticated bool
	CSRFToken     string
	Version       string
}

type NavItem struct {
	Section   domain.Section
	Label     string
	Active    bool
	CSRFToken string
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"navItem": func(p PageData, section, label string) NavItem {
		return NavItem{
			Section:   domain.Section(section),
			Label:     label,
			Active:    p.Section == domain.Section(section),
			CSRFToken: p.CSRFToken,
		}
	},
}

// ParseTemplates loads the page templates from fsys.
func ParseTemplates(fsys fs.FS) (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(fsys, "templates/*.html")
}

// PageHandler renders the single page from the session snapshot.
type PageHandler struct {
	store     ports.SessionStore
	tokens    TokenIssuer
	templates *template.Template
	version   string
}

func NewPageHandler(store ports.SessionStore, tokens TokenIssuer, templates *template.Template, version string) *PageHandler {
	return &PageHandler{
		store:     store,
		tokens:    tokens,
		templates: templates,
		version:   version,
	}
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionID(r.Context())

	sess, err := h.store.Get(r.Context(), sid)
	if err != nil {
		logger.Error().Err(err).Str("session_id", sid).Msg("failed to load session")
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}

	token, err := h.tokens.Token(sid)
	if err != nil {
		logger.Error().Err(err).Msg("failed to issue csrf token")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := PageData{
		Section:       sess.Section,
		Views:         sess.Views,
		Grid:          sess.Views.Dashboard.Grid(),
		Authenticated: sess.Authenticated(),
		CSRFToken:     token,
		Version:       h.version,
	}

	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.Error().Err(err).Msg("failed to render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
