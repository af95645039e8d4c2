package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout   time.Duration `envconfig:"APP_SHUTDOWN_TIMEOUT" default:"10s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	// Empty disables the check log.
	RedisAddr        string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	CheckLogCapacity int64         `envconfig:"CHECKLOG_CAPACITY" default:"200"`
	CheckLogTTL      time.Duration `envconfig:"CHECKLOG_TTL" default:"24h"`

	RateLimitPerMinute int    `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`
	DefaultLanguage    string `envconfig:"DEFAULT_LANG" default:"en"`
	BatchLimit         int    `envconfig:"BATCH_LIMIT" default:"100"`
	BatchConcurrency   int    `envconfig:"BATCH_CONCURRENCY" default:"8"`

	// DryRun builds the full server and exits before listening.
	DryRun bool `envconfig:"APP_DRY_RUN"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute <= 0 {
		return nil, errors.New("rate limit per minute must be positive")
	}
	if cfg.BatchLimit <= 0 {
		return nil, errors.New("batch limit must be positive")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// CheckLogEnabled reports whether a Redis address is configured.
func (c *Config) CheckLogEnabled() bool {
	return c != nil && c.RedisAddr != ""
}
