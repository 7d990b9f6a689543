// Package config loads the planner configuration from JSON or YAML files
// with environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/agendex/agendex/core/factory"
	"github.com/agendex/agendex/core/metrics"
	"github.com/agendex/agendex/core/optimize"
	"github.com/agendex/agendex/core/session"
)

type Config struct {
	Generation GenerationConfig       `json:"generation"`
	Teams      []factory.ModuleConfig `json:"teams"`
	Solver     optimize.Options       `json:"solver"`
	Logging    LoggingConfig          `json:"logging"`
	Metrics    metrics.Config         `json:"metrics"`
	History    HistoryConfig          `json:"history"`
}

// GenerationConfig wraps the session generation parameters plus the locale
// used for period labels.
type GenerationConfig struct {
	session.Params `json:",squash"`
	// Locale is a BCP 47 tag selecting month names for period tags.
	// Unsupported locales fall back to English.
	Locale string `json:"locale"`
}

// Load reads the configuration file at path. Environment variables prefixed
// with AGX_ override file values, with __ separating nested keys.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides. The callback yields dot-separated
	// keys, so the provider delimiter must be "." for the values to nest
	// over the file's keys on merge.
	if err := k.Load(env.Provider("AGX_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "agx_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Solver.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.History.SetDefaults()
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.History.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
