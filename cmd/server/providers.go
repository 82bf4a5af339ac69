package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/flyerhub/flyerd/internal/application/event"
	"github.com/flyerhub/flyerd/internal/application/flyer"
	"github.com/flyerhub/flyerd/internal/config"
	httpserver "github.com/flyerhub/flyerd/internal/infrastructure/http"
	"github.com/flyerhub/flyerd/internal/infrastructure/http/handler"
	"github.com/flyerhub/flyerd/internal/infrastructure/images"
	"github.com/flyerhub/flyerd/internal/infrastructure/images/fs"
	"github.com/flyerhub/flyerd/internal/infrastructure/images/gcs"
	"github.com/flyerhub/flyerd/internal/infrastructure/persistence"
	"github.com/flyerhub/flyerd/internal/infrastructure/vision"
)

// provideStore opens the configured database.
func provideStore(ctx context.Context, cfg *config.ServerConfig) (persistence.Store, func(), error) {
	store, err := persistence.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	slog.InfoContext(ctx, "Storage initialized", "driver", cfg.Database.Driver)

	cleanup := func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}
	return store, cleanup, nil
}

// provideImageStore opens the configured flyer image backend.
func provideImageStore(ctx context.Context, cfg *config.ServerConfig) (images.Store, func(), error) {
	switch cfg.Images.Backend {
	case config.ImagesGCS:
		store, err := gcs.NewStore(ctx, cfg.Images.Bucket, cfg.Images.PublicBaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open GCS image store: %w", err)
		}
		cleanup := func() {
			if err := store.Close(); err != nil {
				slog.Error("Failed to close GCS client", "error", err)
			}
		}
		return store, cleanup, nil

	default:
		store, err := fs.NewStore(cfg.Images.Dir, cfg.Images.PublicBaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open image directory: %w", err)
		}
		return store, func() {}, nil
	}
}

func provideVisionClient(cfg *config.ServerConfig) *vision.Client {
	return vision.NewClient(vision.Config{
		BaseURL:   cfg.Vision.BaseURL,
		APIKey:    cfg.Vision.APIKey,
		Model:     cfg.Vision.Model,
		MaxTokens: cfg.Vision.MaxTokens,
		Timeout:   cfg.Vision.Timeout,
	})
}

func provideFetcher(cfg *config.ServerConfig) *images.HTTPFetcher {
	return images.NewHTTPFetcher(cfg.Images.FetchTimeout)
}

func provideEventService(store persistence.Store, cfg *config.ServerConfig) *event.Service {
	return event.NewService(store, event.Config{
		DefaultPageSize: cfg.Pagination.DefaultPageSize,
		MaxPageSize:     cfg.Pagination.MaxPageSize,
		Location:        cfg.Calendar.Location(),
	})
}

func provideFlyerService(
	store persistence.Store,
	visionClient *vision.Client,
	imageStore images.Store,
	fetcher *images.HTTPFetcher,
	events *event.Service,
	cfg *config.ServerConfig,
) *flyer.Service {
	return flyer.NewService(store, visionClient, imageStore, fetcher, events, flyer.Config{
		MaxImageBytes:   cfg.Images.MaxBytes,
		Location:        cfg.Calendar.Location(),
		MaxWindowMonths: cfg.Calendar.MaxWindowMonths,
	})
}

// provideAPIServer assembles the router and the HTTP server.
// Images are served locally only for the fs backend; GCS objects are public.
func provideAPIServer(
	events *event.Service,
	flyers *flyer.Service,
	imageStore images.Store,
	store persistence.Store,
	cfg *config.ServerConfig,
) (*httpserver.APIServer, error) {
	apiRouter, err := handler.NewAPIRouter(events, flyers,
		handler.WithMaxUploadMemory(cfg.HTTP.MaxBodyBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create API router: %w", err)
	}

	var imageHandler http.Handler
	if cfg.Images.Backend == config.ImagesFS {
		imageHandler = handler.NewImageHandler(imageStore)
	}

	return httpserver.NewAPIServer(apiRouter, imageHandler, httpserver.ServerConfig{
		Host:              cfg.HTTP.Host,
		Port:              cfg.HTTP.Port,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		HealthCheck:       store.Ping,
	}), nil
}

// initializeAPIServer builds the server by hand in the order InitializeAPIServer
// in wire.go declares. The returned cleanup closes the image store, then the database.
func initializeAPIServer(ctx context.Context, cfg *config.ServerConfig) (*httpserver.APIServer, func(), error) {
	store, storeCleanup, err := provideStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	imageStore, imagesCleanup, err := provideImageStore(ctx, cfg)
	if err != nil {
		storeCleanup()
		return nil, nil, err
	}

	visionClient := provideVisionClient(cfg)
	fetcher := provideFetcher(cfg)
	events := provideEventService(store, cfg)
	flyers := provideFlyerService(store, visionClient, imageStore, fetcher, events, cfg)

	server, err := provideAPIServer(events, flyers, imageStore, store, cfg)
	if err != nil {
		imagesCleanup()
		storeCleanup()
		return nil, nil, err
	}

	return server, func() {
		imagesCleanup()
		storeCleanup()
	}, nil
}
