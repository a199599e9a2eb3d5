package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Document store
	StoreBackend string `envconfig:"STORE_BACKEND" default:"file"`
	DataDir      string `envconfig:"DATA_DIR" default:"data"`
	RedisURL     string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	RedisPrefix  string `envconfig:"REDIS_PREFIX" default:"nba_model"`

	// External data providers
	ScoreboardBaseURL string        `envconfig:"SCOREBOARD_BASE_URL" default:""`
	InjuriesBaseURL   string        `envconfig:"INJURIES_BASE_URL" default:""`
	StatsBaseURL      string        `envconfig:"STATS_BASE_URL" default:""`
	ProviderTimeout   time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"30s"`
	ProviderRateDelay time.Duration `envconfig:"PROVIDER_RATE_DELAY" default:"600ms"`
	ProviderRetries   uint64        `envconfig:"PROVIDER_RETRIES" default:"3"`

	// Historical replay
	ReplayStartDate     string `envconfig:"REPLAY_START_DATE" default:"2024-10-01"`
	CheckpointEveryDays int    `envconfig:"CHECKPOINT_EVERY_DAYS" default:"7"`

	// Scheduler
	EnableScheduler bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	CatchUpCron     string `envconfig:"CATCHUP_CRON" default:"0 9 * * *"`
	TierRefreshCron string `envconfig:"TIER_REFRESH_CRON" default:"0 5 * * *"`
	EvaluateCron    string `envconfig:"EVALUATE_CRON" default:"30 9 * * *"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case "file", "redis":
	default:
		return fmt.Errorf("STORE_BACKEND must be 'file' or 'redis', got %q", c.StoreBackend)
	}

	if c.StoreBackend == "file" && c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required for the file backend")
	}
	if c.StoreBackend == "redis" && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required for the redis backend")
	}

	if _, err := time.Parse("2006-01-02", c.ReplayStartDate); err != nil {
		return fmt.Errorf("REPLAY_START_DATE must be YYYY-MM-DD: %w", err)
	}

	if c.CheckpointEveryDays < 1 {
		return fmt.Errorf("CHECKPOINT_EVERY_DAYS must be at least 1")
	}

	return nil
}

// ReplayStart returns the parsed replay start date.
func (c *Config) ReplayStart() time.Time {
	start, _ := time.Parse("2006-01-02", c.ReplayStartDate)
	return start
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
