package config

import (
	"errors"
	"time"
)

// ErrVisionAPIKeyRequired is returned when no vision API key is configured.
var ErrVisionAPIKeyRequired = errors.New("FLYER_VISION_API_KEY is required")

// VisionConfig configures the OpenAI-compatible vision endpoint.
type VisionConfig struct {
	BaseURL   string        `env:"FLYER_VISION_BASE_URL" default:"https://api.openai.com/v1"`
	APIKey    string        `env:"FLYER_VISION_API_KEY"`
	Model     string        `env:"FLYER_VISION_MODEL" default:"gpt-4o-mini"`
	Timeout   time.Duration `env:"FLYER_VISION_TIMEOUT" default:"60s"`
	MaxTokens int           `env:"FLYER_VISION_MAX_TOKENS" default:"1024"`
}

// Validate validates the vision configuration.
func (c *VisionConfig) Validate() error {
	if c.APIKey == "" {
		return ErrVisionAPIKeyRequired
	}
	return nil
}
