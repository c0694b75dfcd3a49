package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	ServerAddr     string        `env:"SERVER_ADDR" envDefault:":8080"`
	AdminAddr      string        `env:"ADMIN_ADDR" envDefault:":9091"`
	PostgresURL    string        `env:"POSTGRES_URL,required"`
	RedisURL       string        `env:"REDIS_URL"` // e.g. redis://localhost:6379/0; empty disables the token cache
	TokenCacheTTL  time.Duration `env:"TOKEN_CACHE_TTL" envDefault:"5m"`
	MaxBodySize    int64         `env:"MAX_BODY_SIZE_BYTES" envDefault:"1048576"` // 1MB
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS" envDefault:"1000"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"2000"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
