package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gorm.io/gorm/logger"
)

// Config holds the runtime configuration of the card API, loaded from the environment.
type Config struct {
	HTTPAddr        string        `env:"CARDS_HTTP_ADDR" envDefault:":8008"`
	ShutdownTimeout time.Duration `env:"CARDS_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	CORSOrigin      string        `env:"CARDS_CORS_ORIGIN" envDefault:"*"`
	LogLevel        string        `env:"CARDS_LOG_LEVEL" envDefault:"info"`

	// DatabaseDSN is the connection descriptor handed to the store.
	DatabaseDSN      string `env:"CARDS_DB_DSN" envDefault:"cards.db"`
	DatabaseMaxConns int    `env:"CARDS_DB_MAX_OPEN_CONNS" envDefault:"4"`
	DatabaseLogLevel string `env:"CARDS_DB_LOG_LEVEL" envDefault:"warn"`

	RefreshInterval time.Duration `env:"CARDS_REFRESH_INTERVAL" envDefault:"30s"`
	StoreTimeout    time.Duration `env:"CARDS_STORE_TIMEOUT" envDefault:"5s"`

	// Auth is disabled unless JWTSecret is set.
	JWTSecret         string `env:"CARDS_JWT_SECRET"`
	JWTIssuer         string `env:"CARDS_JWT_ISSUER" envDefault:"card-bookmark-api"`
	JWTAudience       string `env:"CARDS_JWT_AUDIENCE" envDefault:"card-bookmark-clients"`
	AdminUser         string `env:"CARDS_ADMIN_USER" envDefault:"admin"`
	AdminPasswordHash string `env:"CARDS_ADMIN_PASSWORD_HASH"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AuthEnabled reports whether mutating routes require a bearer token.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// Validate checks the invariants Load cannot express through struct tags.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("CARDS_HTTP_ADDR is required"))
	}
	if strings.TrimSpace(c.DatabaseDSN) == "" {
		errs = append(errs, errors.New("CARDS_DB_DSN is required"))
	}
	if c.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("CARDS_REFRESH_INTERVAL must be positive, got %s", c.RefreshInterval))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, fmt.Errorf("CARDS_STORE_TIMEOUT must be positive, got %s", c.StoreTimeout))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("CARDS_SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout))
	}
	if c.DatabaseMaxConns < 1 {
		errs = append(errs, fmt.Errorf("CARDS_DB_MAX_OPEN_CONNS must be at least 1, got %d", c.DatabaseMaxConns))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseDBLogLevel(c.DatabaseLogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.AuthEnabled() && c.AdminPasswordHash == "" {
		errs = append(errs, errors.New("CARDS_ADMIN_PASSWORD_HASH is required when CARDS_JWT_SECRET is set"))
	}
	return errors.Join(errs...)
}

// ParseLogLevel maps a level name to a slog level.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}

// ParseDBLogLevel maps a level name to a gorm logger level.
func ParseDBLogLevel(name string) (logger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "silent":
		return logger.Silent, nil
	case "error":
		return logger.Error, nil
	case "", "warn", "warning":
		return logger.Warn, nil
	case "info":
		return logger.Info, nil
	}
	return 0, fmt.Errorf("unknown database log level %q", name)
}
