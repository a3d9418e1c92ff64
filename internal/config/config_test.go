package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/codelocate/internal/candidate"
	"github.com/ziadkadry99/codelocate/internal/strategy"
	"github.com/ziadkadry99/codelocate/internal/symbols"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "anthropic" {
		t.Errorf("expected default provider anthropic, got %q", cfg.Provider)
	}
	if cfg.Strategy != "rule" {
		t.Errorf("expected default strategy rule, got %q", cfg.Strategy)
	}
	if cfg.MaxFilesToAnalyze != 8 {
		t.Errorf("expected default max_files_to_analyze 8, got %d", cfg.MaxFilesToAnalyze)
	}
	if cfg.BatchSize != 3 {
		t.Errorf("expected default batch_size 3, got %d", cfg.BatchSize)
	}
	if cfg.Scoring.SymbolThreshold != 0.5 || cfg.Scoring.APIThreshold != 0.3 {
		t.Errorf("unexpected thresholds %+v", cfg.Scoring)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	original := DefaultConfig()
	original.Provider = "openai"
	original.Model = "gpt-4o"
	original.Strategy = "model"
	original.Include = []string{"**/*.go", "**/*.py"}
	original.BatchSize = 2
	original.Scoring.APIThreshold = 0.4

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.Strategy != original.Strategy {
		t.Errorf("strategy: got %q, want %q", loaded.Strategy, original.Strategy)
	}
	if loaded.BatchSize != 2 {
		t.Errorf("batch_size: got %d, want 2", loaded.BatchSize)
	}
	if loaded.Scoring.APIThreshold != 0.4 {
		t.Errorf("scoring.api_threshold: got %f, want 0.4", loaded.Scoring.APIThreshold)
	}
	if len(loaded.Include) != len(original.Include) {
		t.Fatalf("include length: got %d, want %d", len(loaded.Include), len(original.Include))
	}
	for i, v := range loaded.Include {
		if v != original.Include[i] {
			t.Errorf("include[%d]: got %q, want %q", i, v, original.Include[i])
		}
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("strategy: model\nscoring:\n  symbol_threshold: 0.6\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Strategy != "model" {
		t.Errorf("strategy = %q", cfg.Strategy)
	}
	if cfg.Scoring.SymbolThreshold != 0.6 {
		t.Errorf("symbol_threshold = %f, want 0.6", cfg.Scoring.SymbolThreshold)
	}
	if cfg.Scoring.ScoreDivisor != 10 {
		t.Errorf("score_divisor = %f, want default 10", cfg.Scoring.ScoreDivisor)
	}
	if cfg.BatchSize != 3 {
		t.Errorf("batch_size = %d, want default 3", cfg.BatchSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Provider != "anthropic" {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("CODELOCATE_PROVIDER", "ollama")
	t.Setenv("CODELOCATE_BATCH_SIZE", "5")
	t.Setenv("CODELOCATE_SCORING__API_THRESHOLD", "0.25")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Provider != "ollama" {
		t.Errorf("env override failed: got %q, want ollama", loaded.Provider)
	}
	if loaded.BatchSize != 5 {
		t.Errorf("batch_size = %d, want 5", loaded.BatchSize)
	}
	if loaded.Scoring.APIThreshold != 0.25 {
		t.Errorf("api_threshold = %f, want 0.25", loaded.Scoring.APIThreshold)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CODELOCATE_STRATEGY=model\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// Registers cleanup so the variable set by .env does not leak.
	t.Setenv("CODELOCATE_STRATEGY", "")
	os.Unsetenv("CODELOCATE_STRATEGY")

	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Strategy != "model" {
		t.Errorf("strategy = %q, want model from .env", cfg.Strategy)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"CODELOCATE_PROVIDER":                  "provider",
		"CODELOCATE_MAX_FILES_TO_ANALYZE":      "max_files_to_analyze",
		"CODELOCATE_SCORING__SYMBOL_THRESHOLD": "scoring.symbol_threshold",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"openrouter", func(c *Config) { c.Provider = "openrouter" }, false},
		{"empty provider", func(c *Config) { c.Provider = "" }, true},
		{"unknown provider", func(c *Config) { c.Provider = "invalid" }, true},
		{"unknown strategy", func(c *Config) { c.Strategy = "magic" }, true},
		{"zero batch", func(c *Config) { c.BatchSize = 0 }, true},
		{"zero max files", func(c *Config) { c.MaxFilesToAnalyze = 0 }, true},
		{"negative rpm", func(c *Config) { c.RequestsPerMinute = -1 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"zero divisor", func(c *Config) { c.Scoring.ScoreDivisor = 0 }, true},
		{"threshold above one", func(c *Config) { c.Scoring.SymbolThreshold = 1.5 }, true},
		{"zero path threshold", func(c *Config) { c.Scoring.PathThreshold = 0 }, false},
		{"zero symbol threshold", func(c *Config) { c.Scoring.SymbolThreshold = 0 }, true},
		{"zero api threshold", func(c *Config) { c.Scoring.APIThreshold = 0 }, true},
		{"zero reason bonus", func(c *Config) { c.Scoring.ReasonBonus = 0 }, true},
		{"negative symbol budget", func(c *Config) { c.Symbols.MaxFiles = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDerivedSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scoring.PathThreshold = 0.2
	cfg.Scoring.MaxSnippetBytes = 500
	cfg.BatchSize = 4

	p := cfg.Params()
	if p.PathThreshold != 0.2 {
		t.Errorf("path threshold = %f", p.PathThreshold)
	}
	if len(p.ExcludePatterns) != len(candidate.DefaultExcludePatterns) {
		t.Error("exclude patterns should keep the filter defaults")
	}

	o := cfg.StrategyOptions()
	want := strategy.DefaultOptions()
	want.BatchSize = 4
	if o != want {
		t.Errorf("options = %+v, want %+v", o, want)
	}

	if l := cfg.Limits(); l.MaxSnippetBytes != 500 || l.MaxFiles != 10 {
		t.Errorf("limits = %+v", l)
	}

	cfg.Symbols.MaxFiles = 50
	if b := cfg.SymbolBudget(); b.MaxFiles != 50 || b.MaxBytes != symbols.DefaultMaxBytes {
		t.Errorf("symbol budget = %+v", b)
	}
}

func TestDetectProjectType(t *testing.T) {
	dir := t.TempDir()
	if name, _ := detectProjectType(dir); name != "" {
		t.Errorf("empty dir detected as %q", name)
	}
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	name, include := detectProjectType(dir)
	if name != "Go" || include != "**/*.go" {
		t.Errorf("detected %q %q", name, include)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"**/*.go", []string{"**/*.go"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
