package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/flyerhub/flyerd/internal/domain"
	"github.com/flyerhub/flyerd/internal/infrastructure/images"
)

// Store is a filesystem-based implementation of images.Store.
type Store struct {
	baseDir   string
	publicURL string
	mu        sync.RWMutex
}

// NewStore creates a new filesystem store rooted at baseDir. Stored images are
// reported under publicURL.
func NewStore(baseDir, publicURL string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &Store{baseDir: baseDir, publicURL: publicURL}, nil
}

func (s *Store) getFilePath(key string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(key))
}

// Put writes the image through a temporary file so readers never see a partial write.
func (s *Store) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	if err := images.ValidateKey(key); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.getFilePath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	return images.PublicURL(s.publicURL, key), nil
}

// Get reads an image back. The content type comes from the key's extension.
func (s *Store) Get(_ context.Context, key string) (*images.Object, error) {
	if err := images.ValidateKey(key); err != nil {
		return nil, domain.ErrImageNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.getFilePath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return &images.Object{Data: data, ContentType: images.ContentTypeForKey(key)}, nil
}

// Delete removes an image.
func (s *Store) Delete(_ context.Context, key string) error {
	if err := images.ValidateKey(key); err != nil {
		return domain.ErrImageNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.getFilePath(key)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrImageNotFound
		}
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
