// Package persistence selects the configured event and analysis store.
package persistence

import (
	"context"
	"fmt"

	"github.com/flyerhub/flyerd/internal/application/event"
	"github.com/flyerhub/flyerd/internal/application/flyer"
	"github.com/flyerhub/flyerd/internal/application/sweeper"
	"github.com/flyerhub/flyerd/internal/config"
	"github.com/flyerhub/flyerd/internal/infrastructure/persistence/postgres"
	"github.com/flyerhub/flyerd/internal/infrastructure/persistence/sqlite"
)

// Store is implemented by every storage backend.
type Store interface {
	event.Repository
	flyer.Repository
	sweeper.Repository

	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*postgres.Store)(nil)
	_ Store = (*sqlite.Store)(nil)
)

// Open connects to the store cfg.Driver names.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
			DSN:             cfg.DSN,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.ConnMaxIdleTime,
			AutoMigrate:     cfg.AutoMigrate,
		})
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.DriverSQLite:
		store, err := sqlite.NewStoreWithConfig(ctx, sqlite.DBConfig{
			DSN:             cfg.DSN,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			AutoMigrate:     cfg.AutoMigrate,
		})
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
