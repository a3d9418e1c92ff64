// Package llm wraps the hosted and local model APIs behind a single
// completion interface.
package llm

import (
	"context"
	"errors"
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// Pinger is implemented by providers that can cheaply check whether the
// backing service is reachable and authorized.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrNoPing is returned by Ping for providers without an availability probe.
var ErrNoPing = errors.New("provider has no availability probe")

// Ping probes p if it supports it.
func Ping(ctx context.Context, p Provider) error {
	if p == nil {
		return errors.New("no provider configured")
	}
	pinger, ok := p.(Pinger)
	if !ok {
		return ErrNoPing
	}
	return pinger.Ping(ctx)
}
