package config

import (
	"fmt"

	"github.com/flyerhub/flyerd/internal/env"
)

// TestConfig points integration suites at real backends. Suites whose
// backend is not configured skip themselves.
type TestConfig struct {
	PostgresDSN string `env:"FLYER_TEST_DB_DSN"`

	// GCSBucket must be writable with Application Default Credentials.
	GCSBucket string `env:"FLYER_TEST_GCS_BUCKET"`
}

// Skipper is the subset of testing.TB the Require helpers use.
type Skipper interface {
	Helper()
	Skipf(format string, args ...any)
}

// LoadTestConfig loads test configuration from the environment.
func LoadTestConfig() (*TestConfig, error) {
	cfg := &TestConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load test config: %w", err)
	}

	return cfg, nil
}

// RequirePostgres returns the Postgres DSN or skips the test.
func (c *TestConfig) RequirePostgres(t Skipper) string {
	t.Helper()
	if c.PostgresDSN == "" {
		t.Skipf("FLYER_TEST_DB_DSN not set, skipping PostgreSQL tests")
	}
	return c.PostgresDSN
}

// RequireGCS returns the test bucket or skips the test.
func (c *TestConfig) RequireGCS(t Skipper) string {
	t.Helper()
	if c.GCSBucket == "" {
		t.Skipf("FLYER_TEST_GCS_BUCKET not set, skipping GCS tests")
	}
	return c.GCSBucket
}
