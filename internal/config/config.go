// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Loading layers defaults, an optional YAML file, and environment vars.
package config

import "time"

// Default sample generation values mirror the shipped demo dataset.
const (
	defaultSampleSeed     = 42
	defaultSampleSpanDays = 90
	defaultTrendWindow    = 7
	defaultTopDays        = 10
	defaultMaxViewLimit   = 10_000
	defaultMaxUploadBytes = 16 << 20 // 16 MiB
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// SampleSeed seeds the deterministic sample dataset generator.
	SampleSeed int64 `koanf:"sample_seed"`

	// SampleSpanDays is the number of consecutive days in the sample.
	SampleSpanDays int `koanf:"sample_span_days"`

	// SampleAnchor is the final day of the sample span (RFC3339 date).
	// Fixed by default so the sample signature is stable across restarts.
	SampleAnchor string `koanf:"sample_anchor"`

	// MaxUploadBytes caps the size of an uploaded payload.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// MaxViewLimit caps GET /view?limit.
	MaxViewLimit int `koanf:"max_view_limit"`

	// TrendWindow is the moving-average width in the daily trend.
	TrendWindow int `koanf:"trend_window"`

	// TopDays is the size of the top/bottom day tables in reports.
	TopDays int `koanf:"top_days"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9090",
		SampleSeed:     defaultSampleSeed,
		SampleSpanDays: defaultSampleSpanDays,
		SampleAnchor:   "",
		MaxUploadBytes: defaultMaxUploadBytes,
		MaxViewLimit:   defaultMaxViewLimit,
		TrendWindow:    defaultTrendWindow,
		TopDays:        defaultTopDays,
	}
}

// Anchor parses SampleAnchor. A zero time means "use the generator default".
func (c *Config) Anchor() (time.Time, error) {
	if c.SampleAnchor == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", c.SampleAnchor)
}
