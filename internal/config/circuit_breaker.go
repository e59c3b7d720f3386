package config

import (
	"time"

	"github.com/sony/gobreaker"

	"github.com/sis-portal/web/internal/pkg/logger"
)

// Circuit breaker names. Each dependency gets its own breaker instance.
const (
	BreakerSISAPI          = "SIS-API"
	BreakerAuditStore      = "PostgreSQL-Audit"
	BreakerRelayPostgreSQL = "Relay-PostgreSQL"
	BreakerRabbitMQ        = "RabbitMQ-Publisher"
)

// NewCircuitBreaker creates a circuit breaker with standard settings.
// The name parameter uniquely identifies the circuit breaker instance.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	var timeout time.Duration

	// Open-state timeout per dependency
	switch name {
	case BreakerSISAPI:
		timeout = time.Second * 15
	case BreakerAuditStore, BreakerRelayPostgreSQL:
		timeout = time.Second * 10
	default:
		timeout = time.Second * 30
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Second * 10,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Open circuit after 3 consecutive failures
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Error().Msgf("[CRITICAL] Circuit Breaker %s: %s -> %s", name, from, to)
		},
	})
}
