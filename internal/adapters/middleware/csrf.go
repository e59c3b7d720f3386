package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sis-portal/web/internal/pkg/logger"
)

const (
	CSRFFieldName  = "csrf_token"
	CSRFHeaderName = "X-CSRF-Token"
)

var ErrCSRFSessionMismatch = errors.New("csrf token issued for another session")

// CSRF issues and checks form tokens. A token is an HS256 JWT whose subject
// is the session id.
type CSRF struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCSRF(secret string, ttl time.Duration) *CSRF {
	return &CSRF{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (c *CSRF) Token(sessionID string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *CSRF) Verify(tokenString, sessionID string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return err
	}
	if claims.Subject != sessionID {
		return ErrCSRFSessionMismatch
	}
	return nil
}

// Protect rejects unsafe requests without a valid token for their session.
func (c *CSRF) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get(CSRFHeaderName)
		if token == "" {
			token = r.PostFormValue(CSRFFieldName)
		}
		if token == "" {
			logger.Warn().Str("path", r.URL.Path).Msg("missing csrf token")
			http.Error(w, "missing csrf token", http.StatusForbidden)
			return
		}

		if err := c.Verify(token, SessionID(r.Context())); err != nil {
			logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid csrf token")
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
