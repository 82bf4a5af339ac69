package config

import (
	"fmt"
	"time"
)

// CalendarConfig controls how dates are interpreted.
type CalendarConfig struct {
	// Timezone is the IANA zone "today" is computed in.
	Timezone string `env:"FLYER_TIMEZONE" default:"America/Mexico_City"`

	// MaxWindowMonths caps how many months a recurring pattern may span.
	MaxWindowMonths int `env:"FLYER_MAX_WINDOW_MONTHS" default:"12"`

	location *time.Location
}

// Validate resolves the timezone and checks the window cap.
func (c *CalendarConfig) Validate() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid FLYER_TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc

	if c.MaxWindowMonths < 1 || c.MaxWindowMonths > 60 {
		return fmt.Errorf("FLYER_MAX_WINDOW_MONTHS must be between 1 and 60, got %d", c.MaxWindowMonths)
	}
	return nil
}

// Location returns the validated timezone, UTC before validation.
func (c *CalendarConfig) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
