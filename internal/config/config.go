package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"docugen/internal/database"
	"docugen/internal/utils"
)

// Config holds the desktop client configuration.
type Config struct {
	APIURL      string        `envconfig:"DOCUGEN_API_URL" default:"http://localhost:8000"`
	HTTPTimeout time.Duration `envconfig:"DOCUGEN_HTTP_TIMEOUT" default:"30s"`
	HTTPRetries int           `envconfig:"DOCUGEN_HTTP_RETRIES" default:"2"`
	DBPath      string        `envconfig:"DOCUGEN_DB_PATH"`
	LogMode     string        `envconfig:"DOCUGEN_LOG_MODE"`
}

// Load reads .env from the project root, if any, then the process environment.
// An empty DBPath means the per-build default, resolved when the database
// is opened. LogMode defaults to dev in development builds and prod otherwise.
func Load() (*Config, error) {
	if err := utils.LoadEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.LogMode == "" {
		cfg.LogMode = defaultLogMode()
	}
	if cfg.HTTPRetries < 0 {
		cfg.HTTPRetries = 0
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		APIURL:      "http://localhost:8000",
		HTTPTimeout: 30 * time.Second,
		HTTPRetries: 2,
		LogMode:     defaultLogMode(),
	}
}

func defaultLogMode() string {
	if database.IsDevelopment() {
		return "dev"
	}
	return "prod"
}
