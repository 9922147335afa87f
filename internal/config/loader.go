package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if MUSTER_CONFIG is set
//  3. env (prefix MUSTER_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("MUSTER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: MUSTER_DATABASE_PATH, MUSTER_TRAIN_SEED, ...
	// Map env keys like MUSTER_TEST_RATIO -> test_ratio (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("MUSTER_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "muster_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Basic validation
	if cfg.DatabasePath == "" {
		return nil, errors.New("database_path must not be empty")
	}
	if cfg.ArtifactPath == "" || cfg.PresenceArtifactPath == "" {
		return nil, errors.New("artifact paths must not be empty")
	}
	if cfg.VerifyThreshold <= 0 {
		return nil, errors.New("verify_threshold must be positive")
	}
	if cfg.TestRatio <= 0 || cfg.TestRatio >= 1 {
		return nil, errors.New("test_ratio must be in (0, 1)")
	}
	return &cfg, nil
}
