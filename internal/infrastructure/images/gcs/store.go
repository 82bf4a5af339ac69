package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/flyerhub/flyerd/internal/domain"
	"github.com/flyerhub/flyerd/internal/infrastructure/images"
)

// Store is a GCS-based implementation of images.Store.
type Store struct {
	client    *storage.Client
	bucket    string
	publicURL string
}

// NewStore creates a new GCS store.
// It assumes the client is authenticated (e.g. via GOOGLE_APPLICATION_CREDENTIALS).
// An empty publicURL reports images under https://storage.googleapis.com/<bucket>.
func NewStore(ctx context.Context, bucketName, publicURL string) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	if publicURL == "" {
		publicURL = "https://storage.googleapis.com/" + bucketName
	}
	return &Store{
		client:    client,
		bucket:    bucketName,
		publicURL: publicURL,
	}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Put uploads an image object.
func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := images.ValidateKey(key); err != nil {
		return "", err
	}

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"

	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object: %w", err)
	}

	return images.PublicURL(s.publicURL, key), nil
}

// Get downloads an image object.
func (s *Store) Get(ctx context.Context, key string) (*images.Object, error) {
	if err := images.ValidateKey(key); err != nil {
		return nil, domain.ErrImageNotFound
	}

	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		// Use errors.Is to handle wrapped errors from GCS client
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, domain.ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	contentType := r.Attrs.ContentType
	if contentType == "" {
		contentType = images.ContentTypeForKey(key)
	}
	return &images.Object{Data: data, ContentType: contentType}, nil
}

// Delete removes an image object.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := images.ValidateKey(key); err != nil {
		return domain.ErrImageNotFound
	}

	if err := s.client.Bucket(s.bucket).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return domain.ErrImageNotFound
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
