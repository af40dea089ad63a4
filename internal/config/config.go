// Package config provides configuration management for the Moneyball service.
package config

import (
	"fmt"
	"time"

	"github.com/yourusername/moneyball/internal/ev"
)

// Config represents the complete application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	Server       ServerConfig       `mapstructure:"server" validate:"required"`
	Session      SessionConfig      `mapstructure:"session" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Secrets      SecretsConfig      `mapstructure:"secrets"`
	Metrics      MetricsConfig      `mapstructure:"metrics" validate:"required"`
	Housekeeping HousekeepingConfig `mapstructure:"housekeeping" validate:"required"`
	Tiers        ev.TierSet         `mapstructure:"tiers" validate:"tiers"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	LogFormat   string `mapstructure:"log_format" validate:"required,oneof=json text"`
}

// ServerConfig represents the HTTP API listener
type ServerConfig struct {
	Host                   string   `mapstructure:"host"`
	Port                   int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds     int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds    int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"required,gt=0"`
	RateLimitPerSecond     float64  `mapstructure:"rate_limit_per_second" validate:"gte=0"`
	RateLimitBurst         int      `mapstructure:"rate_limit_burst" validate:"gte=0"`
	AllowedOrigins         []string `mapstructure:"allowed_origins"`
}

// SessionConfig bounds the in-memory session store
type SessionConfig struct {
	TTLMinutes  int `mapstructure:"ttl_minutes" validate:"required,gt=0"`
	MaxSessions int `mapstructure:"max_sessions" validate:"gte=0"`
}

// DatabaseConfig represents database connection configuration. The tracker
// ledger falls back to memory when Enabled is false.
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required_if=Enabled true"`
	User               string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"gte=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"gte=0"`
}

// SecretsConfig points at an AWS Secrets Manager secret overlaid on startup
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required,startswith=/"`
}

// HousekeepingConfig holds the cron schedules for background jobs
type HousekeepingConfig struct {
	SessionSweepSchedule string `mapstructure:"session_sweep_schedule" validate:"required"`
	GaugeRefreshSchedule string `mapstructure:"gauge_refresh_schedule" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ListenAddress returns host:port for the API server
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SessionTTL returns the idle lifetime of a session
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// TierSet returns the built-in tier tables with any configured overrides
// applied.
func (c *Config) TierSet() ev.TierSet {
	return ev.DefaultTierSet().Merge(c.Tiers)
}
