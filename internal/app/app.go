package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/profitbridge/platform-api/internal/api"
	"github.com/profitbridge/platform-api/internal/api/middleware"
	"github.com/profitbridge/platform-api/internal/config"
	"github.com/profitbridge/platform-api/internal/db"
	"github.com/profitbridge/platform-api/internal/feed"
	"github.com/profitbridge/platform-api/internal/idempotency"
	"github.com/profitbridge/platform-api/internal/observability"
	"github.com/profitbridge/platform-api/internal/repository"
	"github.com/profitbridge/platform-api/internal/service"
	"github.com/profitbridge/platform-api/internal/worker"
)

// Run bootstraps the HTTP server, change-feed listener, and background
// workers, blocking until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()
	middleware.SetJWTSecret(cfg.JWTSecret)
	middleware.SetJWTValidation(cfg.JWTIssuer, cfg.JWTAudience)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	redisClient, err := newRedisClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	idemStore := idempotency.NewStore(redisClient, pool, cfg.IdempotencyTTL)
	store := service.NewStore(repository.NewStore(pool))

	hub := feed.NewHub()
	listener := feed.NewListener(pool, hub, logger)
	go listener.Run(ctx)

	accrualSvc := service.NewAccrualService(store)
	accrualWorker := worker.NewAccrualWorker(accrualSvc).
		WithInterval(cfg.AccrualInterval).
		WithBatchSize(cfg.AccrualBatchSize)
	stopAccrual := accrualWorker.Run(ctx)
	logger.Info("accrual worker started",
		zap.Duration("interval", cfg.AccrualInterval), zap.Int32("batch", cfg.AccrualBatchSize))

	maintenanceWorker := worker.NewMaintenanceWorker(store, cfg.IdempotencyTTL)
	stopMaintenance := maintenanceWorker.Run(ctx)

	router := api.NewRouter(cfg, logger, pool, store, idemStore, redisClient, hub)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE connections outlive any fixed write deadline
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("port", cfg.HTTPPort))
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("stopping background workers")
	stopAccrual()
	stopMaintenance()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info", "":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func newRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
