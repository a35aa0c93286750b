// Package llm provides a provider-agnostic client for large-language-model
// completions, optionally backed by live web search. The pipeline treats
// every analysis stage as one Complete call returning model text.
package llm

import (
	"context"
)

// CompletionRequest describes one model call.
type CompletionRequest struct {
	// System is the system prompt framing the analysis task.
	System string
	// Prompt is the user-facing prompt, usually embedding the document text.
	Prompt string
	// WebSearch requests that the provider ground the completion in live
	// search results. Search-backed calls are slower and carry a longer
	// stage timeout.
	WebSearch bool
	// MaxTokens bounds the response length. Zero means provider default.
	MaxTokens int
}

// Client executes completions. Implementations must be safe for concurrent
// use; the scheduler dispatches independent stages in parallel against a
// single client.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req CompletionRequest) (string, error)

func (f ClientFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}
