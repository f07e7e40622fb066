package config

import (
	"context"
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
//  2. file (YAML) if SALESDASH_CONFIG is set
//  3. env (prefix SALESDASH_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SALESDASH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: SALESDASH_ADDR, SALESDASH_SAMPLE_SEED, ...
	// Map env keys like SALESDASH_SAMPLE_SEED -> sample_seed (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SALESDASH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "salesdash_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, ErrEmptyAddr
	}
	if _, err := cfg.Anchor(); err != nil {
		return nil, ErrBadAnchor
	}
	if cfg.MaxViewLimit < 1 {
		return nil, ErrBadViewLimit
	}
	if cfg.MaxUploadBytes < 1 {
		return nil, ErrBadUploadBytes
	}
	return &cfg, nil
}
