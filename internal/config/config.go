// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/adsproxy/adsproxy/internal/auth"
)

// ErrNoAPIKey is returned when neither API_KEY nor API_KEY_HASH is set.
var ErrNoAPIKey = errors.New("API_KEY or API_KEY_HASH must be set")

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"PORT" envDefault:"3000"`

	// Shared secret for the report endpoints. API_KEY_HASH (argon2id) wins
	// when both are set.
	APIKey     string `env:"API_KEY"`
	APIKeyHash string `env:"API_KEY_HASH"`

	// Google Ads API
	AdsAPIBaseURL      string        `env:"ADS_API_BASE_URL" envDefault:"https://googleads.googleapis.com"`
	AdsAPIVersion      string        `env:"ADS_API_VERSION" envDefault:"v17"`
	AdsLoginCustomerID string        `env:"ADS_LOGIN_CUSTOMER_ID"`
	OAuthTokenURL      string        `env:"OAUTH_TOKEN_URL"`
	UpstreamTimeout    time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"60s"`

	// Database (PostgreSQL). Optional; enables the report run log.
	DatabaseURL string `env:"DATABASE_URL"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts. WriteTimeout must exceed UpstreamTimeout.
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"90s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// CORS configuration
	// Comma-separated list of allowed origins, or "*" for any origin.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// HasDatabase reports whether the run log is enabled.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks settings that struct tags cannot express.
func (c *Config) Validate() error {
	if c.APIKey == "" && c.APIKeyHash == "" {
		return ErrNoAPIKey
	}
	if c.APIKeyHash != "" {
		if err := auth.ValidateHash(c.APIKeyHash); err != nil {
			return fmt.Errorf("API_KEY_HASH: %w", err)
		}
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	if c.AppPort <= 0 || c.AppPort > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.AppPort)
	}
	return nil
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
