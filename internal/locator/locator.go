// Package locator is the per-request entry point: it lists the workspace,
// gathers symbols, runs a strategy and assembles the result.
package locator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/codelocate/internal/candidate"
	"github.com/ziadkadry99/codelocate/internal/inference"
	"github.com/ziadkadry99/codelocate/internal/logging"
	"github.com/ziadkadry99/codelocate/internal/model"
	"github.com/ziadkadry99/codelocate/internal/ranker"
	"github.com/ziadkadry99/codelocate/internal/strategy"
	"github.com/ziadkadry99/codelocate/internal/symbols"
	"github.com/ziadkadry99/codelocate/internal/walker"
)

// ErrNoWorkspace is returned when the request has no usable root.
var ErrNoWorkspace = errors.New("no workspace root")

// Request is one locate call.
type Request struct {
	Root     string
	Issue    model.Issue
	Strategy strategy.Kind // empty selects the engine default
}

// Config wires an Engine.
type Config struct {
	Include []string
	Exclude []string

	Params   candidate.Params
	Options  strategy.Options
	Limits   ranker.Limits
	Default  strategy.Kind
	Client   inference.Client // nil disables the model strategy
	Symbols  symbols.Provider // nil disables symbol analysis
	Reader   candidate.FileReader
	Logger   *slog.Logger
	Progress strategy.ProgressFunc
}

// Engine runs locate requests. It is safe for concurrent use; every request
// builds its own strategy.
type Engine struct {
	cfg    Config
	filter *candidate.Filter
	logger *slog.Logger
}

// New creates an Engine.
func New(cfg Config) *Engine {
	if cfg.Default == "" {
		cfg.Default = strategy.KindRule
	}
	if cfg.Params.ScoreDivisor == 0 {
		cfg.Params = candidate.DefaultParams()
	}
	if cfg.Limits == (ranker.Limits{}) {
		cfg.Limits = ranker.DefaultLimits()
	}
	logger := logging.OrDiscard(cfg.Logger)
	return &Engine{
		cfg:    cfg,
		filter: candidate.New(cfg.Params, cfg.Reader, logger),
		logger: logger,
	}
}

// Strategy builds the strategy for kind, falling back to rule-based when
// the requested one cannot be built or reports itself unavailable.
func (e *Engine) Strategy(ctx context.Context, kind strategy.Kind, logger *slog.Logger) strategy.Strategy {
	if kind == "" {
		kind = e.cfg.Default
	}
	deps := strategy.Deps{
		Filter:     e.filter,
		Client:     e.cfg.Client,
		Options:    e.cfg.Options,
		Logger:     logger,
		OnProgress: e.cfg.Progress,
	}

	s, err := strategy.New(kind, deps)
	if err != nil {
		logger.Warn("strategy unavailable, using rule-based", "requested", kind, "err", err)
		return strategy.NewRuleBased(deps)
	}
	if !s.IsAvailable(ctx) {
		logger.Warn("strategy unavailable, using rule-based", "requested", kind)
		return strategy.NewRuleBased(deps)
	}
	return s
}

// Locate runs the full pipeline for req.
func (e *Engine) Locate(ctx context.Context, req Request) (model.AnalysisResult, error) {
	if req.Root == "" {
		return model.AnalysisResult{}, ErrNoWorkspace
	}
	root, err := filepath.Abs(req.Root)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: %v", ErrNoWorkspace, err)
	}

	logger := e.logger.With("request_id", uuid.NewString())
	start := time.Now()

	files, err := walker.Walk(ctx, walker.WalkerConfig{
		RootDir: root,
		Include: e.cfg.Include,
		Exclude: e.cfg.Exclude,
	})
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("list workspace: %w", err)
	}

	actx := model.AnalysisContext{
		WorkspaceRoot:  root,
		Issue:          req.Issue,
		CandidatePaths: walker.Paths(files),
	}
	s := e.Strategy(ctx, req.Strategy, logger)
	kw := s.GenerateKeywords(ctx, req.Issue)

	if e.cfg.Symbols != nil {
		sa, err := e.cfg.Symbols.Analyze(ctx, e.symbolOrder(files, kw))
		if err != nil {
			logger.Warn("symbol analysis failed", "err", err)
		} else {
			actx.Symbols = sa
		}
	}

	res, err := run(ctx, s, actx, kw, e.cfg.Limits)
	if err != nil {
		return model.AnalysisResult{}, err
	}

	logger.Info("locate complete",
		"strategy", s.Name(),
		"workspace_files", len(files),
		"files", len(res.Files),
		"symbols", len(res.Symbols),
		"apis", len(res.APIs),
		"confidence", res.Confidence,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return res, nil
}

// symbolOrder hands the symbol provider the files passing the path pass
// first, then their directory siblings, then the rest, each group best path
// score first. A budgeted provider thus parses the likely answer and the
// package around it before anything else.
func (e *Engine) symbolOrder(files []walker.FileInfo, kw model.SearchKeywords) []walker.FileInfo {
	threshold := e.filter.Params().PathThreshold
	scores := make([]float64, len(files))
	hotDirs := make(map[string]bool)
	for i, f := range files {
		scores[i] = e.filter.PathScore(f.RelPath, kw)
		if scores[i] > threshold {
			hotDirs[path.Dir(f.RelPath)] = true
		}
	}
	group := func(i int) int {
		switch {
		case scores[i] > threshold:
			return 0
		case hotDirs[path.Dir(files[i].RelPath)]:
			return 1
		}
		return 2
	}

	idx := make([]int, len(files))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ga, gb := group(idx[a]), group(idx[b])
		if ga != gb {
			return ga < gb
		}
		return scores[idx[a]] > scores[idx[b]]
	})
	out := make([]walker.FileInfo, len(files))
	for i, j := range idx {
		out[i] = files[j]
	}
	return out
}

// run executes one strategy against a prepared context and its keywords.
func run(ctx context.Context, s strategy.Strategy, actx model.AnalysisContext, kw model.SearchKeywords, lim ranker.Limits) (model.AnalysisResult, error) {
	files, err := s.FindRelevantFiles(ctx, actx, kw)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("find relevant files: %w", err)
	}
	partial := model.AnalysisResult{
		Files:   files,
		Symbols: s.FindRelevantSymbols(actx, kw),
		APIs:    s.FindRelevantApis(actx, kw),
	}
	confidence := s.CalculateConfidence(partial)
	return ranker.Assemble(partial.Files, partial.Symbols, partial.APIs, confidence, lim), nil
}
