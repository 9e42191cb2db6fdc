// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading and validation errors wrap this package's sentinel errors.
package config

import (
	"fmt"
	"math"
	"runtime"
	"slices"
)

// Run modes.
const (
	ModeBatch = "batch"
	ModeServe = "serve"
)

// Report formats for batch mode.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Mode selects batch resolution of one input or the HTTP server.
	Mode string `koanf:"mode"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Input is the batch input file. Empty reads stdin.
	Input string `koanf:"input"`

	// Format is the batch report format: text or json.
	Format string `koanf:"format"`

	// CollisionDistance is the default contact distance between two vehicles.
	CollisionDistance float64 `koanf:"collision_distance"`

	// WorkerCount sets the number of generation workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the row queue used by parallel generation.
	QueueSize int `koanf:"queue_size"`

	// ParallelThreshold is the fleet size at which generation goes parallel.
	ParallelThreshold int `koanf:"parallel_threshold"`

	// StorePath is a sqlite database for runs. Empty keeps runs in memory.
	StorePath string `koanf:"store_path"`

	// MaxRunsLimit caps GET /runs?limit.
	MaxRunsLimit int `koanf:"max_runs_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Mode:              ModeBatch,
		Addr:              ":9080",
		Format:            FormatText,
		CollisionDistance: 10,
		WorkerCount:       runtime.NumCPU(),
		QueueSize:         4096,
		ParallelThreshold: 512,
		MaxRunsLimit:      100,
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case !slices.Contains([]string{ModeBatch, ModeServe}, c.Mode):
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	case !slices.Contains([]string{FormatText, FormatJSON}, c.Format):
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	case c.CollisionDistance <= 0 || math.IsNaN(c.CollisionDistance) || math.IsInf(c.CollisionDistance, 0):
		return fmt.Errorf("%w: collision_distance must be positive, got %v", ErrInvalidConfig, c.CollisionDistance)
	case c.Mode == ModeServe && c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be at least 1, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be at least 1, got %d", ErrInvalidConfig, c.QueueSize)
	case c.ParallelThreshold < 1:
		return fmt.Errorf("%w: parallel_threshold must be at least 1, got %d", ErrInvalidConfig, c.ParallelThreshold)
	case c.MaxRunsLimit < 1:
		return fmt.Errorf("%w: max_runs_limit must be at least 1, got %d", ErrInvalidConfig, c.MaxRunsLimit)
	}
	return nil
}
