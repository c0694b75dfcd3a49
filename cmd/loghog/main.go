package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/loghog/loghog/internal/adapter/api"
	"github.com/loghog/loghog/internal/adapter/codec"
	"github.com/loghog/loghog/internal/adapter/metrics"
	"github.com/loghog/loghog/internal/adapter/repository/postgres"
	"github.com/loghog/loghog/internal/adapter/repository/rediscache"
	"github.com/loghog/loghog/internal/pkg/config"
	"github.com/loghog/loghog/internal/pkg/logger"
	"github.com/loghog/loghog/internal/usecase"

	_ "github.com/lib/pq" // postgres driver
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logger.New(cfg.LogLevel)
	slog.SetDefault(logger)

	m := metrics.NewIngestMetrics()

	// --- Admin and metrics server ---
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	adminServer := &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: adminMux,
	}

	go func() {
		logger.Info("starting admin & metrics server", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("admin & metrics server failed", "error", err)
		}
	}()

	// --- Graceful shutdown context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage connections ---
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	var tokenCache postgres.TokenCache
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("failed to parse redis url", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("could not reach redis, token cache degrades to cache misses", "error", err)
		}
		tokenCache = rediscache.NewTokenCache(redisClient, cfg.TokenCacheTTL, logger)
	}

	// --- Repositories and services ---
	bodyCodec, err := codec.New()
	if err != nil {
		logger.Error("failed to initialize body codec", "error", err)
		os.Exit(1)
	}

	tokenRepo := postgres.NewTokenRepository(db, tokenCache, logger, m)
	logRepo := postgres.NewLogRepository(db, logger)

	ingestUC := usecase.NewIngestService(tokenRepo, logRepo, bodyCodec, m, logger)
	queryUC := usecase.NewQueryService(logRepo, bodyCodec, logger)

	// --- API server ---
	router := api.NewRouter(api.RouterConfig{
		MaxBodySize:    cfg.MaxBodySize,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, logger, tokenRepo, ingestUC, queryUC)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	go func() {
		logger.Info("starting ingest server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("ingest server failed", "error", err)
			stop()
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	logger.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin server shutdown failed", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ingest server shutdown failed", "error", err)
	}

	logger.Info("servers shut down gracefully")
}
