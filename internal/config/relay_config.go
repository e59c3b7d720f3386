package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// RelayConfig holds configuration for the audit outbox relay.
type RelayConfig struct {
	DatabaseURL    string `validate:"required"`
	RabbitMQURL    string `validate:"required,url"`
	AuditQueueName string `validate:"required"`
	HealthPort     string `validate:"required,numeric"`
	LogLevel       string
	LogPretty      bool
}

func LoadRelayConfig() (*RelayConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &RelayConfig{
		DatabaseURL:    GetEnv("DB_CONNECTION_STRING", ""),
		RabbitMQURL:    GetEnv("RABBITMQ_URL", ""),
		AuditQueueName: GetEnv("AUDIT_QUEUE_NAME", "portal-audit"),
		HealthPort:     GetEnv("RELAY_HEALTH_PORT", "8090"),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		LogPretty:      GetEnvAsBool("LOG_PRETTY", true),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid relay configuration: %w", err)
	}
	return cfg, nil
}
