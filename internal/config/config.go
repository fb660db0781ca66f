// Package config defines the puls runtime configuration and its loading
// rules. A Config is assembled from defaults, an optional YAML config file,
// PULS_* environment variables, and command-line flags (in increasing
// precedence), then finalized: intervals and history lengths are clamped to
// safe ranges and safe mode forcibly disables every optional backend.
package config

import (
	"time"
)

const (
	// MinRefreshInterval is the fastest allowed sampling interval.
	MinRefreshInterval = 100 * time.Millisecond
	// MaxRefreshInterval is the slowest allowed sampling interval.
	MaxRefreshInterval = 10 * time.Second

	// MinHistoryLength and MaxHistoryLength bound the trend buffers.
	MinHistoryLength = 10
	MaxHistoryLength = 300

	// DefaultRefreshInterval matches one sample per second.
	DefaultRefreshInterval = time.Second
	// DefaultHistoryLength keeps one minute of trend data at the default
	// refresh interval.
	DefaultHistoryLength = 60

	// UIRefreshInterval is the fixed render cadence. Not user-configurable.
	UIRefreshInterval = 16 * time.Millisecond
)

// Config holds the active configuration for a puls run. It is cloned into
// the collector at startup and treated as immutable afterwards.
type Config struct {
	SafeMode        bool          `mapstructure:"safe" yaml:"safe"`
	RefreshInterval time.Duration `mapstructure:"refresh" yaml:"refresh"`
	HistoryLength   int           `mapstructure:"history" yaml:"history"`
	DockerEnabled   bool          `mapstructure:"docker" yaml:"docker"`
	GPUEnabled      bool          `mapstructure:"gpu" yaml:"gpu"`
	NetworkEnabled  bool          `mapstructure:"network" yaml:"network"`
	ShowSystem      bool          `mapstructure:"show_system" yaml:"show_system"`
	Verbose         bool          `mapstructure:"verbose" yaml:"verbose"`
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		RefreshInterval: DefaultRefreshInterval,
		HistoryLength:   DefaultHistoryLength,
		DockerEnabled:   true,
		GPUEnabled:      true,
		NetworkEnabled:  true,
	}
}

// Finalize clamps out-of-range values and applies safe-mode forcing.
// Safe mode wins over every explicit capability request.
func (c Config) Finalize() Config {
	if c.RefreshInterval < MinRefreshInterval {
		c.RefreshInterval = MinRefreshInterval
	}
	if c.RefreshInterval > MaxRefreshInterval {
		c.RefreshInterval = MaxRefreshInterval
	}
	if c.HistoryLength < MinHistoryLength {
		c.HistoryLength = MinHistoryLength
	}
	if c.HistoryLength > MaxHistoryLength {
		c.HistoryLength = MaxHistoryLength
	}
	if c.SafeMode {
		c.DockerEnabled = false
		c.GPUEnabled = false
		c.NetworkEnabled = false
	}
	return c
}

// OperationTimeout bounds the container-collection phase of one tick.
func (c Config) OperationTimeout() time.Duration {
	return c.RefreshInterval / 2
}
