package config

import (
	"fmt"
	"time"

	"github.com/flyerhub/flyerd/internal/env"
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	Database        DatabaseConfig
	HTTP            HTTPConfig
	Vision          VisionConfig
	Images          ImagesConfig
	Calendar        CalendarConfig
	Pagination      PaginationConfig
	Observability   ObservabilityConfig
	ShutdownTimeout time.Duration `env:"FLYER_SHUTDOWN_TIMEOUT" default:"15s"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"FLYER_HTTP_HOST"`
	Port              string        `env:"FLYER_HTTP_PORT" default:"8080"`
	ReadTimeout       time.Duration `env:"FLYER_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout      time.Duration `env:"FLYER_HTTP_WRITE_TIMEOUT" default:"90s"`
	IdleTimeout       time.Duration `env:"FLYER_HTTP_IDLE_TIMEOUT" default:"120s"`
	ReadHeaderTimeout time.Duration `env:"FLYER_HTTP_READ_HEADER_TIMEOUT" default:"5s"`
	MaxHeaderBytes    int           `env:"FLYER_HTTP_MAX_HEADER_BYTES" default:"1MiB" unit:"bytes"`
	MaxBodyBytes      int64         `env:"FLYER_HTTP_MAX_BODY_BYTES" default:"12MiB" unit:"bytes"`
}

// Addr returns the listen address.
func (c HTTPConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// LoadServerConfig loads and validates server configuration from .env and the environment.
func LoadServerConfig() (*ServerConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
