// Package inference asks a language model to extract search keywords from an
// issue and to judge whether a single file is relevant to it.
package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/ziadkadry99/codelocate/internal/keywords"
	"github.com/ziadkadry99/codelocate/internal/llm"
	"github.com/ziadkadry99/codelocate/internal/logging"
	"github.com/ziadkadry99/codelocate/internal/model"
	"github.com/ziadkadry99/codelocate/internal/projectctx"
)

var (
	// ErrUnavailable is returned when no model is configured or reachable.
	ErrUnavailable = errors.New("inference unavailable")
	// ErrMalformedResponse is returned when the model's reply is not the
	// requested JSON object.
	ErrMalformedResponse = errors.New("malformed model response")
)

// Judgment is the model's verdict on one file.
type Judgment struct {
	IsRelevant     bool    `json:"is_relevant"`
	RelevanceScore float64 `json:"relevance_score"`
	Reason         string  `json:"reason"`
}

// Client is the external inference collaborator used by the model-assisted
// strategy.
type Client interface {
	GenerateKeywords(ctx context.Context, issue model.Issue) (model.SearchKeywords, error)
	JudgeRelevance(ctx context.Context, issue model.Issue, path, content string) (Judgment, error)
	Available(ctx context.Context) bool
}

// LLMClient implements Client over an llm.Provider.
type LLMClient struct {
	provider    llm.Provider
	model       string
	temperature float64
	project     string
	logger      *slog.Logger
}

// New creates an LLMClient. An empty model uses the provider's default.
func New(provider llm.Provider, model string, logger *slog.Logger) *LLMClient {
	return &LLMClient{
		provider: provider,
		model:    model,
		logger:   logging.OrDiscard(logger),
	}
}

// WithProjectContext adds pc to every prompt. A nil pc is ignored.
func (c *LLMClient) WithProjectContext(pc *projectctx.ProjectContext) *LLMClient {
	c.project = pc.PromptSection()
	return c
}

func (c *LLMClient) complete(ctx context.Context, msgs []llm.Message, maxTokens int) (string, error) {
	if c.provider == nil {
		return "", ErrUnavailable
	}
	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		MaxTokens:   maxTokens,
		Temperature: c.temperature,
		JSONMode:    true,
	})
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", c.provider.Name(), err)
	}
	return resp.Content, nil
}

// GenerateKeywords asks the model for keyword tiers. The result is capped and
// deduplicated the same way as the local extractor.
func (c *LLMClient) GenerateKeywords(ctx context.Context, issue model.Issue) (model.SearchKeywords, error) {
	caps := [4]int{keywords.MaxPrimary, keywords.MaxSecondary, keywords.MaxTechnical, keywords.MaxContextual}
	raw, err := c.complete(ctx, keywordMessages(issue, caps, c.project), 512)
	if err != nil {
		return model.SearchKeywords{}, err
	}

	var kw model.SearchKeywords
	if err := decodeJSON(raw, &kw); err != nil {
		return model.SearchKeywords{}, err
	}
	kw = keywords.Normalize(kw)
	if kw.Empty() {
		return model.SearchKeywords{}, fmt.Errorf("%w: no keywords", ErrMalformedResponse)
	}
	return kw, nil
}

// JudgeRelevance asks the model whether the file at path matters for issue.
// The score is clamped to [0,1].
func (c *LLMClient) JudgeRelevance(ctx context.Context, issue model.Issue, path, content string) (Judgment, error) {
	raw, err := c.complete(ctx, relevanceMessages(issue, path, content, c.project), 256)
	if err != nil {
		return Judgment{}, err
	}

	var j Judgment
	if err := decodeJSON(raw, &j); err != nil {
		return Judgment{}, err
	}
	if math.IsNaN(j.RelevanceScore) || j.RelevanceScore < 0 {
		j.RelevanceScore = 0
	}
	if j.RelevanceScore > 1 {
		j.RelevanceScore = 1
	}
	j.Reason = strings.TrimSpace(j.Reason)
	return j, nil
}

// Available probes the provider. Providers without a probe are assumed
// available.
func (c *LLMClient) Available(ctx context.Context) bool {
	err := llm.Ping(ctx, c.provider)
	switch {
	case err == nil, errors.Is(err, llm.ErrNoPing):
		return true
	default:
		c.logger.Debug("inference provider unavailable", "err", err)
		return false
	}
}

// decodeJSON strips markdown code fences and surrounding prose, then
// unmarshals the first JSON object in raw.
func decodeJSON(raw string, v any) error {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		lines := strings.Split(raw, "\n")
		if len(lines) >= 2 {
			end := len(lines)
			if strings.TrimSpace(lines[end-1]) == "```" {
				end--
			}
			raw = strings.Join(lines[1:end], "\n")
		}
	}
	if i, j := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); i >= 0 && j > i {
		raw = raw[i : j+1]
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
