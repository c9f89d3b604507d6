package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nulzo/cache-gateway-api/internal/analytics"
	"github.com/nulzo/cache-gateway-api/internal/cache"
	"github.com/nulzo/cache-gateway-api/internal/config"
	"github.com/nulzo/cache-gateway-api/internal/platform/logger"
	"github.com/nulzo/cache-gateway-api/internal/platform/otel"
	"github.com/nulzo/cache-gateway-api/internal/server"
	"github.com/nulzo/cache-gateway-api/internal/store/sqlite"
	"github.com/nulzo/cache-gateway-api/internal/version"
)

func main() {
	logger.Initialize(logger.DefaultConfig())
	defer logger.Sync()
	log := logger.Get()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	shutdownTracer, err := otel.InitTracer("cache-gateway-api", log, os.Stdout)
	if err != nil {
		log.Fatal("failed to initialize tracer", zap.Error(err))
	}

	go version.CheckForUpdates(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := cache.NewRedisBackend(ctx, cache.RedisOptions{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		SSL:      cfg.Redis.SSL,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() {
		_ = backend.Close()
	}()

	cacheSvc := cache.NewService(backend, log)

	repo, err := sqlite.NewStorage(cfg.Store.DSN)
	if err != nil {
		log.Fatal("failed to open analytics store", zap.Error(err))
	}
	defer func() {
		_ = repo.Close()
	}()

	ingestor := analytics.NewIngestor(log, repo)
	ingestor.Start(ctx)
	defer ingestor.Stop()

	stats := analytics.NewService(repo)

	srv := server.New(cfg, log, cacheSvc, stats, ingestor)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting cache gateway",
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Server.Env),
			zap.String("version", version.Version),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", zap.Error(err))
	}

	log.Info("cache gateway stopped")
}
