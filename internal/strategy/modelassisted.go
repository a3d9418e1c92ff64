package strategy

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/codelocate/internal/candidate"
	"github.com/ziadkadry99/codelocate/internal/inference"
	"github.com/ziadkadry99/codelocate/internal/keywords"
	"github.com/ziadkadry99/codelocate/internal/model"
)

// Outcome tags how a value was produced.
type Outcome int

const (
	// OutcomeModel means the inference client answered.
	OutcomeModel Outcome = iota
	// OutcomeFallback means the heuristic result was used instead.
	OutcomeFallback
)

func (o Outcome) String() string {
	if o == OutcomeModel {
		return "model"
	}
	return "fallback"
}

// Evaluation is the judgment of one candidate file.
type Evaluation struct {
	Candidate candidate.Candidate
	Judgment  inference.Judgment
	Outcome   Outcome
	Err       error
}

// Relevant reports whether the file should be kept. A file whose call
// failed is kept with its heuristic score.
func (e Evaluation) Relevant() bool {
	return e.Outcome == OutcomeFallback || e.Judgment.IsRelevant
}

// Match converts the evaluation into a result file.
func (e Evaluation) Match() model.FileMatch {
	m := model.FileMatch{Path: e.Candidate.Path, Content: e.Candidate.Content, Score: e.Candidate.Score}
	if e.Outcome == OutcomeModel {
		m.Score = e.Judgment.RelevanceScore
		m.Reason = e.Judgment.Reason
	}
	return m
}

// ModelAssisted narrows candidates with the heuristic filter and then asks
// the inference client to judge each one.
type ModelAssisted struct {
	Base
	client     inference.Client
	onProgress ProgressFunc
}

// NewModelAssisted creates the model-assisted strategy. deps.Client must be
// set.
func NewModelAssisted(deps Deps) *ModelAssisted {
	return &ModelAssisted{
		Base:       newBase(deps),
		client:     deps.Client,
		onProgress: deps.OnProgress,
	}
}

func (m *ModelAssisted) Name() string { return string(KindModel) }

// GenerateKeywords asks the client and falls back to local extraction.
func (m *ModelAssisted) GenerateKeywords(ctx context.Context, issue model.Issue) model.SearchKeywords {
	kw, err := m.client.GenerateKeywords(ctx, issue)
	if err != nil {
		m.logger.Warn("keyword inference failed, using local extraction", "err", err, "outcome", OutcomeFallback)
		return keywords.Extract(issue.Text())
	}
	return kw
}

// FindRelevantFiles evaluates the top candidates in sequential batches of
// BatchSize concurrent calls. Retained files are sorted by the model's score.
// When nothing is retained the filter's top FallbackFiles are returned as is.
func (m *ModelAssisted) FindRelevantFiles(ctx context.Context, actx model.AnalysisContext, kw model.SearchKeywords) ([]model.FileMatch, error) {
	cands, err := m.filter.Rank(ctx, actx, kw, m.opts.MaxFilesToAnalyze)
	if err != nil {
		return nil, err
	}
	if len(cands) == 0 {
		return nil, nil
	}

	evals := m.Evaluate(ctx, actx.Issue, cands)

	var kept []model.FileMatch
	for _, e := range evals {
		if e.Relevant() {
			kept = append(kept, e.Match())
		}
	}
	if len(kept) == 0 {
		n := min(m.opts.FallbackFiles, len(cands))
		m.logger.Info("no file judged relevant, using heuristic ranking", "files", n, "outcome", OutcomeFallback)
		return toFileMatches(cands[:n]), nil
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	if len(kept) > m.opts.MaxFiles {
		kept = kept[:m.opts.MaxFiles]
	}
	return kept, nil
}

// Evaluate judges at most MaxFilesToAnalyze candidates. Each goroutine writes
// only its own slot, and a batch is fully settled before the next starts, so
// no more than BatchSize calls are in flight. A failed call yields an
// OutcomeFallback evaluation; Evaluate itself never fails.
func (m *ModelAssisted) Evaluate(ctx context.Context, issue model.Issue, cands []candidate.Candidate) []Evaluation {
	if len(cands) > m.opts.MaxFilesToAnalyze {
		cands = cands[:m.opts.MaxFilesToAnalyze]
	}
	evals := make([]Evaluation, len(cands))

	for start := 0; start < len(cands); start += m.opts.BatchSize {
		end := min(start+m.opts.BatchSize, len(cands))

		var g errgroup.Group
		g.SetLimit(m.opts.BatchSize)
		for i := start; i < end; i++ {
			g.Go(func() error {
				evals[i] = m.evaluate(ctx, issue, cands[i])
				return nil
			})
		}
		_ = g.Wait()

		for i := start; i < end; i++ {
			if e := evals[i]; e.Outcome == OutcomeFallback {
				m.logger.Warn("relevance inference failed, keeping heuristic score",
					"path", e.Candidate.Path, "score", e.Candidate.Score, "err", e.Err)
			}
			if m.onProgress != nil {
				m.onProgress(i+1, len(cands), cands[i].Path)
			}
		}
	}
	return evals
}

func (m *ModelAssisted) evaluate(ctx context.Context, issue model.Issue, c candidate.Candidate) Evaluation {
	j, err := m.client.JudgeRelevance(ctx, issue, c.Path, c.Content)
	if err != nil {
		return Evaluation{Candidate: c, Outcome: OutcomeFallback, Err: err}
	}
	return Evaluation{Candidate: c, Judgment: j, Outcome: OutcomeModel}
}

// CalculateConfidence adds ReasonBonus to the baseline when any file carries
// an explanation.
func (m *ModelAssisted) CalculateConfidence(res model.AnalysisResult) float64 {
	c := m.Base.CalculateConfidence(res)
	for _, f := range res.Files {
		if f.Reason != "" {
			return min(1.0, c+m.opts.ReasonBonus)
		}
	}
	return c
}

// IsAvailable reports the inference client's own availability probe.
func (m *ModelAssisted) IsAvailable(ctx context.Context) bool {
	return m.client != nil && m.client.Available(ctx)
}
