package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if REVLENS_CONFIG is set
//  3. env (prefix REVLENS_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("REVLENS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: REVLENS_ADDR, REVLENS_MIN_REVIEWS, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("REVLENS_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "revlens_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.MinReviews < 1 {
		return nil, fmt.Errorf("%w: min_reviews must be at least 1", ErrInvalidConfig)
	}
	if cfg.TopK < 1 {
		return nil, fmt.Errorf("%w: top_k must be at least 1", ErrInvalidConfig)
	}
	return &cfg, nil
}
