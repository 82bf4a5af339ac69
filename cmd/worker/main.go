package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flyerhub/flyerd/internal/application/sweeper"
	"github.com/flyerhub/flyerd/internal/config"
	"github.com/flyerhub/flyerd/internal/infrastructure/observability"
	"github.com/flyerhub/flyerd/internal/infrastructure/persistence"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run worker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tel, err := observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("failed to init observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "Failed to shut down telemetry", "error", err)
		}
	}()

	store, err := persistence.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}()

	sw, err := sweeper.New(store, cfg.SweepSchedule,
		sweeper.WithLocation(cfg.Calendar.Location()),
		sweeper.WithOperationTimeout(cfg.OperationTimeout),
		sweeper.WithRunOnStart(cfg.SweepOnStart),
	)
	if err != nil {
		return fmt.Errorf("failed to create sweeper: %w", err)
	}

	// Blocks until SIGINT/SIGTERM, then waits for an in-flight sweep.
	if err := sw.Start(ctx); err != nil {
		return fmt.Errorf("sweeper stopped with error: %w", err)
	}
	slog.Info("Worker shut down gracefully")
	return nil
}
