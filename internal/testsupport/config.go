package testsupport

import (
	"path/filepath"
	"testing"

	"vigil/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithSweepHour overrides the daily sweep hour on the test config.
func WithSweepHour(hour int) ConfigOption {
	return func(c *config.Config) {
		c.Sweep.Hour = hour
	}
}

// WithFetchTimeout sets the per-item fetch timeout in seconds.
func WithFetchTimeout(seconds int) ConfigOption {
	return func(c *config.Config) {
		c.Sweep.FetchTimeout = seconds
	}
}
