package config

import "fmt"

// PaginationConfig holds event listing page sizes.
type PaginationConfig struct {
	DefaultPageSize int `env:"FLYER_DEFAULT_PAGE_SIZE" default:"50"`
	MaxPageSize     int `env:"FLYER_MAX_PAGE_SIZE" default:"200"`
}

// Validate validates pagination configuration.
func (c *PaginationConfig) Validate() error {
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("FLYER_DEFAULT_PAGE_SIZE must be positive, got %d", c.DefaultPageSize)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("FLYER_MAX_PAGE_SIZE (%d) must be >= FLYER_DEFAULT_PAGE_SIZE (%d)", c.MaxPageSize, c.DefaultPageSize)
	}
	return nil
}
