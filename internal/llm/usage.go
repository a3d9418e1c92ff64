package llm

import (
	"context"
	"sync"
)

// modelPricing holds per-model pricing in USD per 1M tokens.
type modelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

var priceTable = map[string]modelPricing{
	"claude-sonnet-4-5-20250929": {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"claude-haiku-4-5-20251001":  {InputPerMillion: 0.80, OutputPerMillion: 4.00},
	"gpt-4o":                     {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"gpt-4o-mini":                {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"openai/gpt-4o-mini":         {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"gemini-2.0-flash":           {InputPerMillion: 0.10, OutputPerMillion: 0.40},
}

// EstimateCost returns the estimated cost in USD for the given model and
// token counts, or 0 for unpriced models (including local ones).
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := priceTable[model]
	if !ok {
		return 0
	}
	return float64(inputTokens)/1_000_000.0*pricing.InputPerMillion +
		float64(outputTokens)/1_000_000.0*pricing.OutputPerMillion
}

// EstimateTokens approximates a token count at one token per four bytes.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n == 0 && len(text) > 0 {
		return 1
	}
	return n
}

// Usage totals token counts across the calls of one request.
type Usage struct {
	Calls        int     `json:"calls"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// UsageTracker wraps a Provider and accumulates Usage from every successful
// completion. It is safe for concurrent use.
type UsageTracker struct {
	provider Provider
	mu       sync.Mutex
	usage    Usage
}

// NewUsageTracker wraps provider.
func NewUsageTracker(provider Provider) *UsageTracker {
	return &UsageTracker{provider: provider}
}

func (u *UsageTracker) Name() string { return u.provider.Name() }

func (u *UsageTracker) Ping(ctx context.Context) error { return Ping(ctx, u.provider) }

func (u *UsageTracker) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	resp, err := u.provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	u.usage.Calls++
	u.usage.InputTokens += resp.InputTokens
	u.usage.OutputTokens += resp.OutputTokens
	u.usage.CostUSD += EstimateCost(resp.Model, resp.InputTokens, resp.OutputTokens)
	u.mu.Unlock()
	return resp, nil
}

// Usage returns a snapshot of the totals.
func (u *UsageTracker) Usage() Usage {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.usage
}
