package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flyerhub/flyerd/internal/config"
	"github.com/flyerhub/flyerd/internal/infrastructure/observability"
)

// telemetryFlushTimeout bounds how long exporters get to flush on exit.
const telemetryFlushTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		// slog might not be initialized if config fails.
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Root context, cancelled on SIGTERM/SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration via OTEL_* env vars (endpoint, headers, resource attributes)
	tel, err := observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("failed to init observability: %w", err)
	}

	server, appCleanup, err := initializeAPIServer(ctx, cfg)
	if err != nil {
		shutdownTelemetry(tel)
		return fmt.Errorf("failed to initialize server: %w", err)
	}
	defer newCleanup(appCleanup, tel)()

	slog.InfoContext(ctx, "Starting flyerd",
		"db_driver", cfg.Database.Driver,
		"images_backend", cfg.Images.Backend,
		"timezone", cfg.Calendar.Timezone,
	)

	errResult := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errResult <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "Shutdown signal received")

		// The root context is already cancelled; give requests a fresh window.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
		slog.InfoContext(shutdownCtx, "HTTP server shutdown complete")
		return nil

	case err := <-errResult:
		return err
	}
}

func shutdownTelemetry(tel shutdowner) {
	ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
	defer cancel()
	if err := tel.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to shut down telemetry", "error", err)
	}
}
