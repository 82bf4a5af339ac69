// Package images stores flyer images and fetches remote ones.
package images

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Object is a stored image.
type Object struct {
	Data        []byte
	ContentType string
}

// Store is implemented by every image backend.
type Store interface {
	// Put writes data under key, replacing any previous object, and returns its public URL.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Get returns domain.ErrImageNotFound for unknown keys.
	Get(ctx context.Context, key string) (*Object, error)

	// Delete returns domain.ErrImageNotFound for unknown keys.
	Delete(ctx context.Context, key string) error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+(/[A-Za-z0-9_-]+)*\.[a-z0-9]+$`)

// ValidateKey rejects keys that could escape the store root or are not
// "dir/name.ext" shaped.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) || strings.Contains(key, "..") {
		return fmt.Errorf("invalid image key %q", key)
	}
	return nil
}

// contentTypes maps stored file extensions to content types.
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ContentTypeForKey guesses a content type from the key's extension.
func ContentTypeForKey(key string) string {
	if ct, ok := contentTypes[path.Ext(key)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// PublicURL joins base and key with exactly one slash.
func PublicURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}
