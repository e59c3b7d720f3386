package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/sis-portal/web/internal/adapters/handler"
	"github.com/sis-portal/web/internal/adapters/middleware"
	"github.com/sis-portal/web/internal/adapters/repository"
	"github.com/sis-portal/web/internal/adapters/session"
	"github.com/sis-portal/web/internal/adapters/sisclient"
	"github.com/sis-portal/web/internal/config"
	"github.com/sis-portal/web/internal/core/ports"
	"github.com/sis-portal/web/internal/core/services"
	"github.com/sis-portal/web/internal/pkg/logger"
	"github.com/sis-portal/web/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
	})

	ctx := context.Background()
	sessionTTL := time.Duration(cfg.Session.MaxAge) * time.Second

	var store ports.SessionStore
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		logger.Info().Str("address", cfg.Redis.Address).Msg("connected to Redis")
		store = session.NewRedisStore(redisClient, sessionTTL)
	default:
		store = session.NewMemoryStore(sessionTTL)
	}

	var (
		db    *sql.DB
		audit ports.AuditRecorder = repository.LogRecorder{}
	)
	if cfg.Database.URL != "" {
		db, err = sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open database")
		}
		defer db.Close()

		if err := repository.Migrate(db); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
		audit = repository.NewAuditRepository(db)
		logger.Info().Msg("audit events go to the outbox")
	}

	client, err := sisclient.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create API client")
	}

	templates, err := handler.ParseTemplates(web.Templates)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse templates")
	}

	registrationService := services.NewRegistrationService(client, store, audit)
	authService := services.NewAuthService(client, store, audit)
	studentService := services.NewStudentService(client, store, audit)
	teacherService := services.NewTeacherService(client, store, audit)
	adminService := services.NewAdminService(client, store, audit)
	navigationService := services.NewNavigationService(store, studentService)

	csrf := middleware.NewCSRF(cfg.CSRF.Secret, cfg.CSRF.TTL)

	router := handler.NewRouter(handler.Handlers{
		Page:         handler.NewPageHandler(store, csrf, templates, cfg.Version),
		Auth:         handler.NewAuthHandler(authService, navigationService),
		Registration: handler.NewRegistrationHandler(registrationService),
		Student:      handler.NewStudentHandler(studentService),
		Teacher:      handler.NewTeacherHandler(teacherService),
		Admin:        handler.NewAdminHandler(adminService),
		Health:       handler.NewHealthHandler(cfg.Version, store, client, db),
		Sessions: middleware.NewSessionMiddleware(
			[]byte(cfg.Session.Secret),
			cfg.Session.CookieName,
			cfg.Session.MaxAge,
			cfg.Session.Secure,
			store,
		),
		CSRF:   csrf,
		Static: web.Static,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Str("upstream", cfg.Upstream.BaseURL).Msg("starting portal server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("could not start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info().Str("signal", sig.String()).Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server exited")
}
