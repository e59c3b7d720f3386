package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/sis-portal/web/internal/adapters/messaging"
	"github.com/sis-portal/web/internal/adapters/outbox"
	"github.com/sis-portal/web/internal/config"
	"github.com/sis-portal/web/internal/pkg/logger"
)

func main() {
	cfg, err := config.LoadRelayConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("relay: failed to load configuration")
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
	})
	logger.Info().Msg("starting audit outbox relay")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("relay: failed to open database")
	}
	defer db.Close()

	publisher, err := messaging.NewAuditPublisher(cfg.RabbitMQURL, cfg.AuditQueueName)
	if err != nil {
		logger.Fatal().Err(err).Msg("relay: failed to connect to RabbitMQ")
	}
	defer publisher.Close()
	logger.Info().Str("queue", cfg.AuditQueueName).Msg("relay: connected to RabbitMQ")

	relayWorker := outbox.NewRelay(db, cfg.DatabaseURL, publisher)

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health", healthCheck(relayWorker.IsHealthy))
	healthMux.HandleFunc("/health/live", healthCheck(relayWorker.IsHealthy))
	healthMux.HandleFunc("/health/ready", healthCheck(relayWorker.IsReady))

	healthServer := &http.Server{
		Addr:    ":" + cfg.HealthPort,
		Handler: healthMux,
	}

	go func() {
		logger.Info().Str("port", cfg.HealthPort).Msg("relay: starting health check server")
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("relay: health server error")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		if err := relayWorker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("relay: initiating shutdown")
	case err := <-errChan:
		logger.Error().Err(err).Msg("relay: fatal worker error, shutting down")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("relay: error shutting down health server")
	}

	logger.Info().Msg("relay: shutdown complete")
}

func healthCheck(check func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "UP"
		httpStatus := http.StatusOK
		if !check() {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatus)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    status,
			"component": "audit-outbox-relay",
		})
	}
}
