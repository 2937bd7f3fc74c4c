package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/opencircle/realtime/internal/auth"
	"github.com/opencircle/realtime/internal/config"
	"github.com/opencircle/realtime/internal/metrics"
	"github.com/opencircle/realtime/internal/registry"
	"github.com/opencircle/realtime/internal/transport"
	"github.com/opencircle/realtime/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/realtime.yaml", "path to config file")
	flag.Parse()

	// Optional .env for local development; the config loader expands ${VAR}.
	godotenv.Load()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting realtime",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"addr", cfg.Server.Addr,
		"broadcast_offline", cfg.Presence.OfflineEnabled(),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// One registry per process; every collaborator gets this instance.
	counters := metrics.NewCounters()
	reg := registry.New(registry.Config{
		BroadcastOffline: cfg.Presence.OfflineEnabled(),
	}, logger, counters)

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)
	srv := transport.NewServer(cfg, reg, verifier, counters, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Routes(),
	}

	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown timeout, forcing close", "error", err)
	}

	logger.Info("realtime stopped")
}
