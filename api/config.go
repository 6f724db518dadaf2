package api

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the serving knobs. Values come from the environment;
// command-line flags may override individual fields after parsing.
type Config struct {
	Host        string `env:"HOST" envDefault:"localhost"`
	Port        int    `env:"PORT" envDefault:"8080"`
	ScenarioDir string `env:"SCENARIO_DIR" envDefault:"scenarios"`
	RunsDir     string `env:"RUNS_DIR" envDefault:"runs"`
	StaticDir   string `env:"STATIC_DIR" envDefault:"./static/"`

	// Background maintenance. Terminal runs older than RunRetention are
	// evicted from memory every CleanupInterval; SyncInterval controls how
	// often the registry is reconciled against the runs directory, and
	// RefreshInterval how often scenario presets are re-read from disk.
	RunRetention    time.Duration `env:"RUN_RETENTION" envDefault:"24h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`
	SyncInterval    time.Duration `env:"SYNC_INTERVAL" envDefault:"5s"`
	RefreshInterval time.Duration `env:"SCENARIO_REFRESH_INTERVAL" envDefault:"5m"`
}

// LoadConfig reads the serving configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
