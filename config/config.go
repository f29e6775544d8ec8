// Package config loads the web front configuration from environment
// variables with defaults and validation.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// MinSessionSecretLength is the minimum length of the cookie signing key.
	MinSessionSecretLength = 32
	// MinPortNumber is the minimum valid port number.
	MinPortNumber = 1
	// MaxPortNumber is the maximum valid port number.
	MaxPortNumber = 65535
)

// Config is the complete configuration of the web front.
type Config struct {
	Server   ServerConfig   `envconfig:"SERVER"`
	API      APIConfig      `envconfig:"API"`
	Session  SessionConfig  `envconfig:"SESSION"`
	Database DatabaseConfig `envconfig:"DATABASE"`
	Display  DisplayConfig  `envconfig:"DISPLAY"`
	Security SecurityConfig `envconfig:"SECURITY"`
	Logging  LoggingConfig  `envconfig:"LOGGING"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `envconfig:"PORT"             default:"8181"`
	Host            string        `envconfig:"HOST"             default:"0.0.0.0"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT"     default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT"    default:"15s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT"     default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// APIConfig points at the prediction/authentication backend.
type APIConfig struct {
	// BaseURL is the backend origin, e.g. http://localhost:8000.
	BaseURL string        `envconfig:"BASE_URL" default:"http://localhost:8000"`
	Timeout time.Duration `envconfig:"TIMEOUT"  default:"10s"`
}

// SessionConfig controls the signed cookie that carries the Session.
type SessionConfig struct {
	// Secret signs the session cookie (required, minimum 32 characters).
	Secret string `envconfig:"SECRET"  required:"true"`
	Name   string `envconfig:"NAME"    default:"healthpredict_session"`
	MaxAge int    `envconfig:"MAX_AGE" default:"86400"`
	Secure bool   `envconfig:"SECURE"  default:"false"`
	// TokenSecret enables Bearer token sessions when set.
	TokenSecret string        `envconfig:"TOKEN_SECRET"`
	TokenTTL    time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
}

// DatabaseConfig is the optional Postgres store for fetch diagnostics.
type DatabaseConfig struct {
	URL          string `envconfig:"URL"`
	MaxOpenConns int    `envconfig:"MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns int    `envconfig:"MAX_IDLE_CONNS" default:"5"`
}

// DisplayConfig controls how timestamps are shown.
type DisplayConfig struct {
	TimeZone   string `envconfig:"TIME_ZONE"   default:"Local"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"02/01/2006, 15:04:05"`
}

// SecurityConfig holds CORS settings.
type SecurityConfig struct {
	AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"   default:"http://localhost:8181"`
	AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS" default:"true"`
}

// LoggingConfig holds log level, format and output destination.
type LoggingConfig struct {
	Level  string `envconfig:"LEVEL"  default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
	Output string `envconfig:"OUTPUT" default:"stdout"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks values that envconfig cannot.
func (c *Config) Validate() error {
	if len(c.Session.Secret) < MinSessionSecretLength {
		return fmt.Errorf("session secret must be at least %d characters long", MinSessionSecretLength)
	}

	if c.Session.TokenSecret != "" && len(c.Session.TokenSecret) < MinSessionSecretLength {
		return fmt.Errorf("session token secret must be at least %d characters long", MinSessionSecretLength)
	}

	if c.Server.Port < MinPortNumber || c.Server.Port > MaxPortNumber {
		return errors.New("server port must be between 1 and 65535")
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q", c.API.BaseURL)
	}

	if c.API.Timeout <= 0 {
		return errors.New("API timeout must be positive")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// ServerAddr returns the host:port listen address.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Location resolves the display time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Display.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid display time zone %q: %w", c.Display.TimeZone, err)
	}
	return loc, nil
}

// IsDatabaseConfigured reports whether diagnostics should be persisted.
func (c *Config) IsDatabaseConfigured() bool {
	return c.Database.URL != ""
}

// IsTokenAuthEnabled reports whether Bearer token sessions are accepted.
func (c *Config) IsTokenAuthEnabled() bool {
	return c.Session.TokenSecret != ""
}
