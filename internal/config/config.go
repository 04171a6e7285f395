// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file/env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// DataFile points at the NDJSON review dump to load at startup.
	// Empty means no batch load; records arrive via POST /submissions only.
	DataFile string `koanf:"data_file"`

	// MinReviews is the minimum review count for a reviewer to be ranked.
	MinReviews int `koanf:"min_reviews"`

	// TopK caps the length of each ranking view.
	TopK int `koanf:"top_k"`

	// QueueSize bounds the in-memory ingest queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize bounds the review-id dedupe set.
	DedupeSize int `koanf:"dedupe_size"`

	// RebuildIntervalMS sets how often dirty rankings are re-derived.
	RebuildIntervalMS int `koanf:"rebuild_interval_ms"`

	// MaxViewLimit caps GET /rankings/{view}?limit.
	MaxViewLimit int `koanf:"max_view_limit"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9090",
		MinReviews:        3,
		TopK:              200,
		QueueSize:         100_000,
		DedupeSize:        500_000,
		RebuildIntervalMS: 2000,
		MaxViewLimit:      200,
	}
}
