// Package compliance holds the behavior every images.Store must share.
package compliance

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyerhub/flyerd/internal/domain"
	"github.com/flyerhub/flyerd/internal/infrastructure/images"
)

// KeyPrefix is the directory every compliance key lives under.
const KeyPrefix = "compliance/"

func newKey(ext string) string {
	return KeyPrefix + uuid.NewString() + ext
}

// RunImageStoreComplianceTest runs a standard set of tests against an images.Store.
// setup returns a fresh store and a cleanup function.
func RunImageStoreComplianceTest(t *testing.T, setup func() (images.Store, func())) {
	t.Run("PutAndGet", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		key := newKey(".png")
		data := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{7}, 512)...)

		url, err := store.Put(ctx, key, "image/png", data)
		require.NoError(t, err)
		assert.Contains(t, url, key)

		obj, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, data, obj.Data)
		assert.Equal(t, "image/png", obj.ContentType)
	})

	t.Run("PutOverwrites", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		key := newKey(".jpg")
		_, err := store.Put(ctx, key, "image/jpeg", []byte("first"))
		require.NoError(t, err)
		_, err = store.Put(ctx, key, "image/jpeg", []byte("second"))
		require.NoError(t, err)

		obj, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "second", string(obj.Data))
	})

	t.Run("GetMissing", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()

		_, err := store.Get(context.Background(), newKey(".png"))
		assert.ErrorIs(t, err, domain.ErrImageNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		key := newKey(".gif")
		_, err := store.Put(ctx, key, "image/gif", []byte("GIF89a"))
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, key))
		_, err = store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrImageNotFound)
		assert.ErrorIs(t, store.Delete(ctx, key), domain.ErrImageNotFound)
	})

	t.Run("RejectsUnsafeKeys", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()

		_, err := store.Put(context.Background(), "../escape.png", "image/png", []byte("x"))
		assert.Error(t, err)

		_, err = store.Get(context.Background(), "../escape.png")
		assert.ErrorIs(t, err, domain.ErrImageNotFound)
	})
}
