package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
	"github.com/sis-portal/web/internal/pkg/logger"
)

type contextKey string

const (
	SessionIDKey contextKey = "sessionID"

	sessionIDValue = "sid"
)

// SessionMiddleware binds every request to a server-side session. The
// browser only holds a signed cookie with the session id.
type SessionMiddleware struct {
	cookies    *sessions.CookieStore
	cookieName string
	store      ports.SessionStore
}

func NewSessionMiddleware(secret []byte, cookieName string, maxAge int, secure bool, store ports.SessionStore) *SessionMiddleware {
	cookies := sessions.NewCookieStore(secret)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionMiddleware{
		cookies:    cookies,
		cookieName: cookieName,
		store:      store,
	}
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A cookie that fails to decode yields a fresh gorilla session.
		cookie, _ := m.cookies.Get(r, m.cookieName)

		sid, _ := cookie.Values[sessionIDValue].(string)
		if sid != "" {
			if _, err := m.store.Get(r.Context(), sid); err != nil {
				if !errors.Is(err, domain.ErrSessionNotFound) {
					logger.Error().Err(err).Msg("session lookup failed")
					http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
					return
				}
				sid = ""
			}
		}

		if sid == "" {
			sid = uuid.NewString()
			if err := m.store.Create(r.Context(), domain.NewSession(sid, time.Now())); err != nil {
				logger.Error().Err(err).Msg("session create failed")
				http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
				return
			}
			cookie.Values[sessionIDValue] = sid
			if err := cookie.Save(r, w); err != nil {
				logger.Error().Err(err).Msg("session cookie save failed")
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			logger.Debug().Str("session_id", sid).Msg("session created")
		}

		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sid)))
	})
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// SessionID returns the session bound to the request, or "".
func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(SessionIDKey).(string)
	return sid
}
