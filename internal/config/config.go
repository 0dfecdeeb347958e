// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full service configuration.
type Config struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	HTTP     HTTP
	Database Database
	Pricing  Pricing
	Repair   Repair
}

// HTTP holds server settings.
type HTTP struct {
	Port         string        `envconfig:"APP_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
}

// Database holds connection pool settings.
type Database struct {
	DSN             string        `envconfig:"DATABASE_URL" required:"true"`
	MaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns        int32         `envconfig:"DB_MIN_CONNS" default:"5"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// Pricing configures the suggested-sale-price policy.
// Markup is the default multiplier over average cost. Rule, when set, is a
// CEL expression over the variable `cost` that overrides the plain markup.
type Pricing struct {
	Markup string `envconfig:"PRICING_MARKUP" default:"1.2"`
	Rule   string `envconfig:"PRICING_RULE" default:""`
}

// Repair configures the bulk recalculation procedures.
type Repair struct {
	// Parallelism bounds concurrent per-item recomputes in recalculate-all.
	Parallelism int `envconfig:"REPAIR_PARALLELISM" default:"4"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
