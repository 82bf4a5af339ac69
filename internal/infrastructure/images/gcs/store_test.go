package gcs

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"

	"github.com/flyerhub/flyerd/internal/config"
	"github.com/flyerhub/flyerd/internal/infrastructure/images"
	"github.com/flyerhub/flyerd/internal/infrastructure/images/compliance"
)

func TestGCSStore_Compliance(t *testing.T) {
	cfg, err := config.LoadTestConfig()
	require.NoError(t, err)
	bucket := cfg.RequireGCS(t)

	compliance.RunImageStoreComplianceTest(t, func() (images.Store, func()) {
		// Note: This assumes Application Default Credentials are set up
		// and point to a valid project with access to the bucket.
		ctx := context.Background()

		store, err := NewStore(ctx, bucket, "")
		require.NoError(t, err)

		// Cleanup deletes every object the suite wrote under its prefix.
		cleanup := func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			it := store.client.Bucket(bucket).Objects(cleanupCtx, &storage.Query{Prefix: compliance.KeyPrefix})
			for {
				attrs, err := it.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					t.Logf("failed to list objects for cleanup: %v", err)
					break
				}
				if err := store.client.Bucket(bucket).Object(attrs.Name).Delete(cleanupCtx); err != nil {
					t.Logf("failed to delete %s: %v", attrs.Name, err)
				}
			}
			_ = store.Close()
		}

		return store, cleanup
	})
}
