package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/codelocate/internal/config"
	"github.com/ziadkadry99/codelocate/internal/inference"
	"github.com/ziadkadry99/codelocate/internal/llm"
	"github.com/ziadkadry99/codelocate/internal/locator"
	"github.com/ziadkadry99/codelocate/internal/progress"
	"github.com/ziadkadry99/codelocate/internal/projectctx"
	"github.com/ziadkadry99/codelocate/internal/strategy"
	"github.com/ziadkadry99/codelocate/internal/symbols"
)

// configPath resolves --config against the workspace root.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(rootDir, config.FileName)
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `codelocate init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath(), err)
	}
	return cfg, nil
}

// newClient builds the inference client behind the model strategy:
// provider, then retries, then rate limiting, then usage accounting. A
// provider that cannot be built (usually a missing API key) yields a nil
// client, which makes the model strategy fall back to rule-based.
func newClient(cfg *config.Config, logger *slog.Logger) (inference.Client, *llm.UsageTracker) {
	p, err := llm.NewProvider(cfg.Provider, cfg.Model)
	if err != nil {
		logger.Debug("model strategy disabled", "provider", cfg.Provider, "err", err)
		return nil, nil
	}
	retrying := llm.NewRetryingProvider(p)
	limited := llm.NewRateLimitedProvider(retrying, cfg.RequestsPerMinute)
	usage := llm.NewUsageTracker(limited)

	model := cfg.Model
	if model == "" {
		model = llm.DefaultModel(cfg.Provider)
	}
	client := inference.New(usage, model, logger)
	if cfg.ContextFile != "" {
		path := cfg.ContextFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(rootDir, path)
		}
		pc, err := projectctx.Load(path)
		if err != nil {
			logger.Warn("ignoring project context", "path", path, "err", err)
		} else if pc != nil {
			client.WithProjectContext(pc)
		}
	}
	return client, usage
}

type engineOptions struct {
	symbols  bool
	progress bool
}

// newEngine wires a locator.Engine from the config.
func newEngine(cfg *config.Config, logger *slog.Logger, opts engineOptions) (*locator.Engine, *llm.UsageTracker) {
	client, usage := newClient(cfg, logger)

	lc := locator.Config{
		Include: cfg.Include,
		Exclude: cfg.Exclude,
		Params:  cfg.Params(),
		Options: cfg.StrategyOptions(),
		Limits:  cfg.Limits(),
		Default: strategy.Kind(cfg.Strategy),
		Logger:  logger,
	}
	if client != nil {
		lc.Client = client
	}
	if opts.symbols {
		ts := symbols.NewTreeSitter(logger)
		ts.Budget = cfg.SymbolBudget()
		lc.Symbols = ts
	}
	if opts.progress {
		lc.Progress = progress.Func(progress.NewReporter(os.Stderr))
	}
	return locator.New(lc), usage
}

// logUsage reports token usage for model-assisted runs.
func logUsage(logger *slog.Logger, usage *llm.UsageTracker) {
	if usage == nil {
		return
	}
	u := usage.Usage()
	if u.Calls == 0 {
		return
	}
	logger.Info("model usage",
		"calls", u.Calls,
		"input_tokens", u.InputTokens,
		"output_tokens", u.OutputTokens,
		"cost_usd", fmt.Sprintf("%.4f", u.CostUSD),
	)
}
