package config

import (
	"github.com/ziadkadry99/codelocate/internal/candidate"
	"github.com/ziadkadry99/codelocate/internal/llm"
	"github.com/ziadkadry99/codelocate/internal/projectctx"
	"github.com/ziadkadry99/codelocate/internal/ranker"
	"github.com/ziadkadry99/codelocate/internal/strategy"
	"github.com/ziadkadry99/codelocate/internal/symbols"
)

// FileName is the project configuration file looked up in the workspace.
const FileName = ".codelocate.yml"

// DefaultExcludes are glob patterns excluded from the workspace listing by
// default.
var DefaultExcludes = []string{
	"vendor/**",
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
	"*.min.js",
	"*.min.css",
	"*.lock",
	"go.sum",
	"package-lock.json",
	"yarn.lock",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	opts := strategy.DefaultOptions()
	params := candidate.DefaultParams()
	return &Config{
		Provider:          "anthropic",
		Model:             llm.DefaultModel("anthropic"),
		Strategy:          string(strategy.KindRule),
		Exclude:           DefaultExcludes,
		MaxFilesToAnalyze: opts.MaxFilesToAnalyze,
		BatchSize:         opts.BatchSize,
		LogLevel:          "info",
		ContextFile:       projectctx.DefaultFileName,
		Scoring: Scoring{
			PathThreshold:    params.PathThreshold,
			ContentThreshold: params.ContentThreshold,
			ScoreDivisor:     params.ScoreDivisor,
			PenaltyFactor:    params.PenaltyFactor,
			PerKeywordCap:    params.PerKeywordCap,
			MaxContentBytes:  params.MaxContentBytes,
			SymbolThreshold:  opts.SymbolThreshold,
			APIThreshold:     opts.APIThreshold,
			ReasonBonus:      opts.ReasonBonus,
			MaxSnippetBytes:  ranker.DefaultLimits().MaxSnippetBytes,
		},
		Symbols: Symbols{
			MaxFiles: symbols.DefaultMaxFiles,
			MaxBytes: symbols.DefaultMaxBytes,
		},
	}
}

// Params returns the candidate filter tuning described by the config.
func (c *Config) Params() candidate.Params {
	p := candidate.DefaultParams()
	s := c.Scoring
	p.PathThreshold = s.PathThreshold
	p.ContentThreshold = s.ContentThreshold
	p.ScoreDivisor = s.ScoreDivisor
	p.PenaltyFactor = s.PenaltyFactor
	if s.PerKeywordCap > 0 {
		p.PerKeywordCap = s.PerKeywordCap
	}
	if s.MaxContentBytes > 0 {
		p.MaxContentBytes = s.MaxContentBytes
	}
	return p
}

// StrategyOptions returns the strategy options described by the config.
func (c *Config) StrategyOptions() strategy.Options {
	o := strategy.DefaultOptions()
	if c.MaxFilesToAnalyze > 0 {
		o.MaxFilesToAnalyze = c.MaxFilesToAnalyze
	}
	if c.BatchSize > 0 {
		o.BatchSize = c.BatchSize
	}
	o.SymbolThreshold = c.Scoring.SymbolThreshold
	o.APIThreshold = c.Scoring.APIThreshold
	o.ReasonBonus = c.Scoring.ReasonBonus
	return o
}

// Limits returns the result size limits described by the config.
func (c *Config) Limits() ranker.Limits {
	l := ranker.DefaultLimits()
	if c.Scoring.MaxSnippetBytes > 0 {
		l.MaxSnippetBytes = c.Scoring.MaxSnippetBytes
	}
	return l
}

// SymbolBudget returns the symbol analysis budget described by the config.
func (c *Config) SymbolBudget() symbols.Budget {
	return symbols.Budget{MaxFiles: c.Symbols.MaxFiles, MaxBytes: c.Symbols.MaxBytes}
}
