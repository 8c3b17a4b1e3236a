package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/medicare-pro/admin-console/internal/config"
	"github.com/medicare-pro/admin-console/internal/devbackend"
	"github.com/medicare-pro/admin-console/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := devbackend.New(ctx, cfg.DevBackend, logger, observability.NewMetrics())
	if err != nil {
		logger.Fatal("failed to start dev backend", zap.Error(err))
	}
	defer backend.Close()

	go func() {
		logger.Info("dev backend listening", zap.String("addr", cfg.DevBackend.Addr()))
		if err := backend.App.Listen(cfg.DevBackend.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = backend.App.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
