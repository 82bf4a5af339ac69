package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flyerhub/flyerd/internal/config"
	"github.com/flyerhub/flyerd/internal/infrastructure/persistence/compliance"
	"github.com/flyerhub/flyerd/internal/infrastructure/persistence/postgres"
)

func TestPostgresStore_Compliance(t *testing.T) {
	cfg, err := config.LoadTestConfig()
	require.NoError(t, err)
	dsn := cfg.RequirePostgres(t)

	ctx := context.Background()
	store, err := postgres.NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	truncate := func(t *testing.T) {
		_, err := store.Pool().Exec(ctx, "TRUNCATE events, analyses")
		require.NoError(t, err)
	}

	compliance.RunRepositoryComplianceTest(t, func(t *testing.T) (compliance.Store, func()) {
		truncate(t)
		return store, func() { truncate(t) }
	})
}
