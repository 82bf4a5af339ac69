package persistence_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyerhub/flyerd/internal/config"
	"github.com/flyerhub/flyerd/internal/domain"
	"github.com/flyerhub/flyerd/internal/infrastructure/persistence"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()

	store, err := persistence.Open(ctx, config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "flyerd.db"),
		AutoMigrate: true,
	})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Ping(ctx))

	page, err := store.ListEvents(ctx, domain.ListEventsParams{Today: "2026-03-10", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Events)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := persistence.Open(context.Background(), config.DatabaseConfig{Driver: "mysql", DSN: "x"})
	assert.ErrorContains(t, err, "unsupported database driver")
}
