package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthenticated   = errors.New("not authenticated with the school information system")
	ErrMalformedResponse = errors.New("malformed response from the school information system")
	ErrLoginRejected     = errors.New("login returned no user data")
	ErrSessionNotFound   = errors.New("session not found")
	ErrUnknownSection    = errors.New("unknown section")
)

// APIError is a non-2xx answer from the upstream API. Message holds the
// "message" field of the body when it could be parsed.
type APIError struct {
	Status  int
	Message string
	// Parsed is false when the body was empty or not JSON.
	Parsed bool
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream responded %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream responded %d", e.Status)
}

// Is lets errors.Is(err, ErrUnauthenticated) match a 401.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthenticated && e.Status == http.StatusUnauthorized
}

// StatusCode returns the upstream status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// ServerMessage returns the upstream message carried by err, or fallback
// when there is none.
func ServerMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
