package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config is the portal server configuration. Values come from the YAML file,
// then .env, then the process environment.
type Config struct {
	Server struct {
		Port            string        `yaml:"port" validate:"required,numeric"`
		ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
		WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	} `yaml:"server"`

	Upstream struct {
		BaseURL string        `yaml:"base_url" validate:"required,url"`
		Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	} `yaml:"upstream"`

	Session struct {
		Secret     string `yaml:"secret" validate:"required,min=32"`
		CookieName string `yaml:"cookie_name" validate:"required"`
		MaxAge     int    `yaml:"max_age" validate:"gt=0"`
		Secure     bool   `yaml:"secure"`
		Store      string `yaml:"store" validate:"oneof=memory redis"`
	} `yaml:"session"`

	Redis struct {
		Address  string `yaml:"address" validate:"required_if=Store redis"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Store    string `yaml:"-"`
	} `yaml:"redis"`

	CSRF struct {
		Secret string        `yaml:"secret" validate:"required,min=32"`
		TTL    time.Duration `yaml:"ttl" validate:"gt=0"`
	} `yaml:"csrf"`

	Database struct {
		// URL is optional. Without it audit events are only logged.
		URL string `yaml:"url"`
	} `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level" validate:"oneof=debug info warn error fatal"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`

	Version string `yaml:"-"`
}

// Load reads the configuration. A missing YAML file or .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	path := GetEnv("CONFIG_PATH", "config.yaml")
	return LoadFile(path)
}

// LoadFile reads the configuration from path and the process environment.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if _, err := os.Stat(path); err == nil {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if cfg.CSRF.Secret == "" {
		cfg.CSRF.Secret = cfg.Session.Secret
	}
	cfg.Redis.Store = cfg.Session.Store

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Server.Port = "3000"
	cfg.Server.ReadTimeout = 15 * time.Second
	cfg.Server.WriteTimeout = 60 * time.Second
	cfg.Server.ShutdownTimeout = 10 * time.Second

	cfg.Upstream.BaseURL = "http://localhost:8080"
	cfg.Upstream.Timeout = 30 * time.Second

	cfg.Session.CookieName = "sis-portal"
	cfg.Session.MaxAge = 86400
	cfg.Session.Store = SessionStoreMemory

	cfg.CSRF.TTL = time.Hour

	cfg.Logging.Level = "info"
	cfg.Logging.Pretty = true

	cfg.Version = "unknown"
}

func loadFromEnv(cfg *Config) error {
	var err error

	cfg.Server.Port = GetEnv("PORT", cfg.Server.Port)
	if cfg.Server.ShutdownTimeout, err = GetEnvAsDuration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout); err != nil {
		return err
	}

	cfg.Upstream.BaseURL = GetEnv("SIS_API_URL", cfg.Upstream.BaseURL)
	if cfg.Upstream.Timeout, err = GetEnvAsDuration("SIS_API_TIMEOUT", cfg.Upstream.Timeout); err != nil {
		return err
	}

	cfg.Session.Secret = GetEnv("SESSION_SECRET", cfg.Session.Secret)
	cfg.Session.CookieName = GetEnv("SESSION_COOKIE_NAME", cfg.Session.CookieName)
	cfg.Session.MaxAge = GetEnvAsInt("SESSION_MAX_AGE", cfg.Session.MaxAge)
	cfg.Session.Secure = GetEnvAsBool("SESSION_SECURE", cfg.Session.Secure)
	cfg.Session.Store = strings.ToLower(GetEnv("SESSION_STORE", cfg.Session.Store))

	cfg.Redis.Address = GetEnv("REDIS_ADDRESS", cfg.Redis.Address)
	cfg.Redis.Password = GetEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = GetEnvAsInt("REDIS_DB", cfg.Redis.DB)

	cfg.CSRF.Secret = GetEnv("CSRF_SECRET", cfg.CSRF.Secret)
	if cfg.CSRF.TTL, err = GetEnvAsDuration("CSRF_TTL", cfg.CSRF.TTL); err != nil {
		return err
	}

	cfg.Database.URL = GetEnv("DB_CONNECTION_STRING", cfg.Database.URL)

	cfg.Logging.Level = strings.ToLower(GetEnv("LOG_LEVEL", cfg.Logging.Level))
	cfg.Logging.Pretty = GetEnvAsBool("LOG_PRETTY", cfg.Logging.Pretty)

	cfg.Version = GetEnv("APP_VERSION", cfg.Version)
	return nil
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(GetEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	switch strings.ToLower(GetEnv(key, "")) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultValue
}

// GetEnvAsDuration returns an error when the variable is set but unparsable.
func GetEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}
