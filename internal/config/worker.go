package config

import (
	"fmt"
	"time"

	"github.com/flyerhub/flyerd/internal/env"
)

// WorkerConfig holds all configuration for the worker binary.
type WorkerConfig struct {
	Database      DatabaseConfig
	Calendar      CalendarConfig
	Observability ObservabilityConfig

	// SweepSchedule is a robfig/cron spec ("@every 1h", "0 3 * * *").
	SweepSchedule    string        `env:"FLYER_SWEEP_SCHEDULE" default:"@every 1h"`
	SweepOnStart     bool          `env:"FLYER_SWEEP_ON_START" default:"true"`
	OperationTimeout time.Duration `env:"FLYER_WORKER_OPERATION_TIMEOUT" default:"30s"`
}

// LoadWorkerConfig loads and validates worker configuration from .env and the environment.
func LoadWorkerConfig() (*WorkerConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &WorkerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load worker config: %w", err)
	}

	return cfg, nil
}
