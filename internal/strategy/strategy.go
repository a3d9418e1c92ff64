// Package strategy implements the interchangeable relevance-analysis
// algorithms: a keyword heuristic and a model-assisted variant that asks an
// inference client to judge each candidate file.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ziadkadry99/codelocate/internal/candidate"
	"github.com/ziadkadry99/codelocate/internal/inference"
	"github.com/ziadkadry99/codelocate/internal/model"
)

// Strategy is the relevance-analysis contract shared by every variant.
type Strategy interface {
	Name() string
	// GenerateKeywords never fails; a variant whose own extraction fails
	// falls back to the local extractor.
	GenerateKeywords(ctx context.Context, issue model.Issue) model.SearchKeywords
	// FindRelevantFiles fails only when the candidate filter does.
	FindRelevantFiles(ctx context.Context, actx model.AnalysisContext, kw model.SearchKeywords) ([]model.FileMatch, error)
	FindRelevantSymbols(actx model.AnalysisContext, kw model.SearchKeywords) []model.SymbolMatch
	FindRelevantApis(actx model.AnalysisContext, kw model.SearchKeywords) []model.APIMatch
	// CalculateConfidence ignores res.Confidence.
	CalculateConfidence(res model.AnalysisResult) float64
	IsAvailable(ctx context.Context) bool
}

// Kind names a strategy variant.
type Kind string

const (
	KindRule  Kind = "rule"
	KindModel Kind = "model"
)

// Kinds lists every variant.
var Kinds = []Kind{KindRule, KindModel}

// ParseKind validates a strategy name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q (want rule or model)", s)
}

// Options holds the limits and thresholds shared by the strategies.
type Options struct {
	MaxFilesToAnalyze int
	BatchSize         int
	MaxFiles          int
	MaxSymbols        int
	MaxAPIs           int
	FallbackFiles     int
	SymbolThreshold   float64
	APIThreshold      float64
	ReasonBonus       float64
}

// DefaultOptions returns the standard limits.
func DefaultOptions() Options {
	return Options{
		MaxFilesToAnalyze: 8,
		BatchSize:         3,
		MaxFiles:          10,
		MaxSymbols:        10,
		MaxAPIs:           8,
		FallbackFiles:     5,
		SymbolThreshold:   0.5,
		APIThreshold:      0.3,
		ReasonBonus:       0.1,
	}
}

// withDefaults fills unset (non-positive) fields.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxFilesToAnalyze <= 0 {
		o.MaxFilesToAnalyze = d.MaxFilesToAnalyze
	}
	if o.BatchSize <= 0 {
		o.BatchSize = d.BatchSize
	}
	if o.MaxFiles <= 0 {
		o.MaxFiles = d.MaxFiles
	}
	if o.MaxSymbols <= 0 {
		o.MaxSymbols = d.MaxSymbols
	}
	if o.MaxAPIs <= 0 {
		o.MaxAPIs = d.MaxAPIs
	}
	if o.FallbackFiles <= 0 {
		o.FallbackFiles = d.FallbackFiles
	}
	if o.SymbolThreshold <= 0 {
		o.SymbolThreshold = d.SymbolThreshold
	}
	if o.APIThreshold <= 0 {
		o.APIThreshold = d.APIThreshold
	}
	if o.ReasonBonus <= 0 {
		o.ReasonBonus = d.ReasonBonus
	}
	return o
}

// ProgressFunc is called after each evaluated file.
type ProgressFunc func(done, total int, path string)

// Deps are the collaborators a strategy is built from.
type Deps struct {
	Filter     *candidate.Filter // nil reads from disk with default tuning
	Client     inference.Client  // required for KindModel
	Options    Options
	Logger     *slog.Logger
	OnProgress ProgressFunc
}

// ErrNoClient is returned by New when a model-assisted strategy is
// requested without an inference client.
var ErrNoClient = errors.New("model strategy requires an inference client")

// New builds the strategy of the given kind.
func New(kind Kind, deps Deps) (Strategy, error) {
	switch kind {
	case KindRule:
		return NewRuleBased(deps), nil
	case KindModel:
		if deps.Client == nil {
			return nil, ErrNoClient
		}
		return NewModelAssisted(deps), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", kind)
	}
}
