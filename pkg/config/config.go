// Package config loads engine tuning for the catalog tools.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables prefixed DEDUPE_ (DEDUPE_JACCARD_THRESHOLD=0.75)
//  2. YAML config file
//  3. dedupe.DefaultConfig
//
// List and map settings (fuzzy_tiers, abbreviations) replace the defaults
// wholesale when present in the file.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
	fgerrors "github.com/ripixel/fitglue-server/catalog/pkg/errors"
)

const (
	// EnvPrefix marks environment variables that override file settings.
	EnvPrefix = "DEDUPE_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Load reads the YAML file at path (skipped when path is empty), applies
// DEDUPE_ environment overrides and validates the result.
func Load(path string) (dedupe.Config, error) {
	var content []byte
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return dedupe.Config{}, fgerrors.ErrConfiguration.WithCause(err).
				WithMessage("failed to open config file").
				WithMetadata("path", path)
		}
		defer f.Close()

		// Read one byte past the limit to detect oversized files
		content, err = io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
		if err != nil {
			return dedupe.Config{}, fgerrors.ErrConfiguration.WithCause(err).
				WithMessage("failed to read config file").
				WithMetadata("path", path)
		}
		if len(content) > maxConfigFileSize {
			return dedupe.Config{}, fgerrors.ErrConfiguration.
				WithMessage(fmt.Sprintf("config file %s exceeds %d bytes", path, maxConfigFileSize)).
				WithMetadata("path", path)
		}
	}
	return Parse(content)
}

// Parse is Load for YAML already in memory. Empty content yields the
// defaults plus environment overrides.
func Parse(content []byte) (dedupe.Config, error) {
	k := koanf.New(".")

	if len(content) > 0 {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return dedupe.Config{}, fgerrors.ErrConfiguration.WithCause(err).WithMessage("failed to parse config YAML")
		}
	}

	// DEDUPE_JACCARD_THRESHOLD -> jaccard_threshold
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return dedupe.Config{}, fgerrors.ErrConfiguration.WithCause(err).WithMessage("failed to load environment variables")
	}

	cfg := dedupe.DefaultConfig()
	if k.Exists("fuzzy_tiers") {
		cfg.FuzzyTiers = nil
	}
	if k.Exists("abbreviations") {
		cfg.Abbreviations = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return dedupe.Config{}, fgerrors.ErrConfiguration.WithCause(err).WithMessage("failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return dedupe.Config{}, err
	}
	return cfg, nil
}
