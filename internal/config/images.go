package config

import (
	"fmt"
	"time"
)

// Supported image storage backends.
const (
	ImagesFS  = "fs"
	ImagesGCS = "gcs"
)

// ImagesConfig configures where flyer images are kept.
type ImagesConfig struct {
	Backend string `env:"FLYER_IMAGES_BACKEND" default:"fs"` // fs, gcs
	Dir     string `env:"FLYER_IMAGES_DIR" default:"./flyer-images"`
	Bucket  string `env:"FLYER_IMAGES_GCS_BUCKET"`

	// PublicBaseURL prefixes stored keys to build image URLs.
	PublicBaseURL string `env:"FLYER_IMAGES_PUBLIC_BASE_URL" default:"/images"`

	MaxBytes     int64         `env:"FLYER_IMAGES_MAX_BYTES" default:"10MiB" unit:"bytes"`
	FetchTimeout time.Duration `env:"FLYER_IMAGES_FETCH_TIMEOUT" default:"20s"`
}

// Validate validates image storage configuration.
func (c *ImagesConfig) Validate() error {
	switch c.Backend {
	case ImagesFS:
		if c.Dir == "" {
			return fmt.Errorf("FLYER_IMAGES_DIR is required when FLYER_IMAGES_BACKEND is 'fs'")
		}
	case ImagesGCS:
		if c.Bucket == "" {
			return fmt.Errorf("FLYER_IMAGES_GCS_BUCKET is required when FLYER_IMAGES_BACKEND is 'gcs'")
		}
	default:
		return fmt.Errorf("unknown FLYER_IMAGES_BACKEND: %s", c.Backend)
	}
	if c.MaxBytes <= 0 {
		return fmt.Errorf("FLYER_IMAGES_MAX_BYTES must be positive, got %d", c.MaxBytes)
	}
	return nil
}
