package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sis-portal/web/internal/pkg/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type UpstreamAvailability interface {
	Available() bool
}

type HealthHandler struct {
	sessions  Pinger
	upstream  UpstreamAvailability
	db        *sql.DB
	startTime time.Time
	version   string
}

// NewHealthHandler builds the health check handler. db may be nil when no audit
// database is configured; it is then left out of readiness.
func NewHealthHandler(version string, sessions Pinger, upstream UpstreamAvailability, db *sql.DB) *HealthHandler {
	if version == "" {
		version = "unknown"
	}
	return &HealthHandler{
		sessions:  sessions,
		upstream:  upstream,
		db:        db,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse follows Kubernetes/OpenShift health check conventions
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health is a simple liveness check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeHealth(w, http.StatusOK, HealthResponse{
		Status:    "UP",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    map[string]Check{"process": {Status: "UP"}},
	})
}

// Ready checks the session store, the audit database and the upstream breaker.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	checks := map[string]Check{
		"session_store": h.checkSessions(r.Context()),
		"upstream":      h.checkUpstream(),
	}
	if h.db != nil {
		checks["database"] = h.checkDatabase(r.Context())
	}

	status := "UP"
	httpStatus := http.StatusOK
	for _, c := range checks {
		if c.Status != "UP" {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	writeHealth(w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	})
}

// Live is an alias for Health
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

func (h *HealthHandler) checkSessions(ctx context.Context) Check {
	if h.sessions == nil {
		return Check{Status: "DOWN", Message: "Session store is not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.sessions.Ping(ctx); err != nil {
		return Check{Status: "DOWN", Message: "Cannot reach session store"}
	}
	return Check{Status: "UP"}
}

func (h *HealthHandler) checkUpstream() Check {
	if h.upstream == nil {
		return Check{Status: "DOWN", Message: "API client is not initialized"}
	}
	if !h.upstream.Available() {
		return Check{Status: "DOWN", Message: "Circuit breaker is open"}
	}
	return Check{Status: "UP"}
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return Check{Status: "DOWN", Message: "Cannot connect to database"}
	}
	return Check{Status: "UP"}
}

func writeHealth(w http.ResponseWriter, status int, response HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode health response")
	}
}
