// Package config loads runtime settings from the environment, with an
// optional .env overlay for local development.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting for the Carbon server. All values have
// development defaults; override via CARBON_* environment variables.
type Config struct {
	Addr               string        `envconfig:"ADDR" default:":8080"`
	DatabaseDriver     string        `envconfig:"DB_DRIVER" default:"sqlite3"`
	DatabaseDSN        string        `envconfig:"DB_DSN" default:"carbon.db"`
	SessionTTL         time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	BcryptCost         int           `envconfig:"BCRYPT_COST" default:"10"`
	RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"100"`
	RateLimitBurst     int           `envconfig:"RATE_LIMIT_BURST" default:"25"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads a .env file if one exists, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("carbon", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
