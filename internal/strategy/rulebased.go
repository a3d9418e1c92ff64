package strategy

import (
	"context"

	"github.com/ziadkadry99/codelocate/internal/keywords"
	"github.com/ziadkadry99/codelocate/internal/model"
)

// RuleBased scores files and symbols with keyword heuristics only. It makes
// no external calls and is deterministic.
type RuleBased struct {
	Base
}

// NewRuleBased creates the heuristic strategy.
func NewRuleBased(deps Deps) *RuleBased {
	return &RuleBased{Base: newBase(deps)}
}

func (r *RuleBased) Name() string { return string(KindRule) }

func (r *RuleBased) GenerateKeywords(_ context.Context, issue model.Issue) model.SearchKeywords {
	return keywords.Extract(issue.Text())
}

// FindRelevantFiles returns the candidate filter's ranking, capped.
func (r *RuleBased) FindRelevantFiles(ctx context.Context, actx model.AnalysisContext, kw model.SearchKeywords) ([]model.FileMatch, error) {
	cands, err := r.filter.Rank(ctx, actx, kw, r.opts.MaxFilesToAnalyze)
	if err != nil {
		return nil, err
	}
	if len(cands) > r.opts.MaxFiles {
		cands = cands[:r.opts.MaxFiles]
	}
	return toFileMatches(cands), nil
}

func (r *RuleBased) IsAvailable(context.Context) bool { return true }
