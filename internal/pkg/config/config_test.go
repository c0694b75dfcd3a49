package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://localhost:5432/loghog?sslmode=disable")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.ServerAddr != ":8080" {
		t.Errorf("ServerAddr = %s, want :8080", cfg.ServerAddr)
	}
	if cfg.AdminAddr != ":9091" {
		t.Errorf("AdminAddr = %s, want :9091", cfg.AdminAddr)
	}
	if cfg.TokenCacheTTL != 5*time.Minute {
		t.Errorf("TokenCacheTTL = %v, want 5m", cfg.TokenCacheTTL)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %s, want empty (cache disabled)", cfg.RedisURL)
	}
	if cfg.MaxBodySize != 1<<20 {
		t.Errorf("MaxBodySize = %d, want %d", cfg.MaxBodySize, 1<<20)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://localhost:5432/loghog?sslmode=disable")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TOKEN_CACHE_TTL", "30s")
	t.Setenv("RATE_LIMIT_RPS", "250")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %s, want redis://localhost:6379/0", cfg.RedisURL)
	}
	if cfg.TokenCacheTTL != 30*time.Second {
		t.Errorf("TokenCacheTTL = %v, want 30s", cfg.TokenCacheTTL)
	}
	if cfg.RateLimitRPS != 250 {
		t.Errorf("RateLimitRPS = %v, want 250", cfg.RateLimitRPS)
	}
}

func TestLoadRequiresPostgres(t *testing.T) {
	t.Setenv("POSTGRES_URL", "placeholder") // register restore
	os.Unsetenv("POSTGRES_URL")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when POSTGRES_URL is unset")
	}
}
