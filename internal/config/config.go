package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/codelocate/internal/llm"
	"github.com/ziadkadry99/codelocate/internal/strategy"
)

// EnvPrefix prefixes environment overrides. A double underscore descends
// into a nested block: CODELOCATE_SCORING__SYMBOL_THRESHOLD.
const EnvPrefix = "CODELOCATE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CODELOCATE_*). A .env file next to the
// config file is loaded into the process environment first; variables
// already set win.
func Load(path string) (*Config, error) {
	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}

	k := koanf.New(".")
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// envKey maps CODELOCATE_SCORING__API_THRESHOLD to scoring.api_threshold.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !slices.Contains(llm.ProviderNames, c.Provider) {
		return fmt.Errorf("invalid provider %q: must be one of %s", c.Provider, strings.Join(llm.ProviderNames, ", "))
	}
	if _, err := strategy.ParseKind(c.Strategy); err != nil {
		return err
	}
	if c.MaxFilesToAnalyze <= 0 {
		return fmt.Errorf("max_files_to_analyze must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive")
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must be non-negative")
	}
	if c.LogLevel != "" && !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.Symbols.MaxFiles < 0 || c.Symbols.MaxBytes < 0 {
		return fmt.Errorf("symbols.max_files and symbols.max_bytes must be non-negative")
	}
	if c.Scoring.ScoreDivisor <= 0 {
		return fmt.Errorf("scoring.score_divisor must be positive")
	}
	// Strategy thresholds and the reason bonus treat zero as unset, so zero
	// is rejected rather than silently replaced.
	for _, f := range []struct {
		name     string
		v        float64
		positive bool
	}{
		{"path_threshold", c.Scoring.PathThreshold, false},
		{"content_threshold", c.Scoring.ContentThreshold, false},
		{"penalty_factor", c.Scoring.PenaltyFactor, false},
		{"symbol_threshold", c.Scoring.SymbolThreshold, true},
		{"api_threshold", c.Scoring.APIThreshold, true},
		{"reason_bonus", c.Scoring.ReasonBonus, true},
	} {
		if f.positive && f.v <= 0 {
			return fmt.Errorf("scoring.%s must be within (0, 1]", f.name)
		}
		if f.v < 0 || f.v > 1 {
			return fmt.Errorf("scoring.%s must be within [0, 1]", f.name)
		}
	}
	return nil
}
