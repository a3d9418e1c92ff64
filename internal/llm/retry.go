package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// RetryingProvider retries completions that failed because the service was
// rate limited or overloaded, backing off exponentially.
type RetryingProvider struct {
	provider   Provider
	MaxRetries int
	Backoff    time.Duration
	MaxBackoff time.Duration
}

// NewRetryingProvider wraps provider with the default retry policy.
func NewRetryingProvider(provider Provider) *RetryingProvider {
	return &RetryingProvider{
		provider:   provider,
		MaxRetries: 3,
		Backoff:    2 * time.Second,
		MaxBackoff: 30 * time.Second,
	}
}

func (r *RetryingProvider) Name() string {
	return r.provider.Name()
}

func (r *RetryingProvider) Ping(ctx context.Context) error {
	return Ping(ctx, r.provider)
}

// Unwrap returns the wrapped provider.
func (r *RetryingProvider) Unwrap() Provider {
	return r.provider
}

func (r *RetryingProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	backoff := r.Backoff
	for attempt := 0; ; attempt++ {
		resp, err := r.provider.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !IsRetryable(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt >= r.MaxRetries {
			return nil, fmt.Errorf("rate limited after %d retries: %w", r.MaxRetries, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if r.MaxBackoff > 0 && backoff > r.MaxBackoff {
			backoff = r.MaxBackoff
		}
	}
}

// IsRetryable reports whether err looks like a transient rate-limit or
// overload failure.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code == http.StatusServiceUnavailable || se.Code == 529
	}
	var ae *openai.APIError
	if errors.As(err, &ae) {
		return ae.HTTPStatusCode == http.StatusTooManyRequests || ae.HTTPStatusCode == http.StatusServiceUnavailable
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "rate_limit") || strings.Contains(s, "429") ||
		strings.Contains(s, "too many requests") || strings.Contains(s, "overloaded")
}
