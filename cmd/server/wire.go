//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/flyerhub/flyerd/internal/config"
	httpserver "github.com/flyerhub/flyerd/internal/infrastructure/http"
)

// StorageSet provides the database and the flyer image store.
var StorageSet = wire.NewSet(
	provideStore,
	provideImageStore,
)

// ServiceSet provides application services and their collaborators.
var ServiceSet = wire.NewSet(
	provideVisionClient,
	provideFetcher,
	provideEventService,
	provideFlyerService,
)

// InitializeAPIServer wires everything together for the HTTP server.
func InitializeAPIServer(ctx context.Context, cfg *config.ServerConfig) (*httpserver.APIServer, func(), error) {
	wire.Build(
		StorageSet,
		ServiceSet,
		provideAPIServer,
	)
	return nil, nil, nil
}
