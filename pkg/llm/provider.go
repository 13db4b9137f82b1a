package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func ResolveOptions(opts ...Option) *Options {
	options := &Options{
		Temperature: 0.2,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// ChatResult carries the full model output plus token accounting when the
// backend reports it. TokensUsed is 0 when the backend omits usage.
type ChatResult struct {
	Content    string
	TokensUsed int
}

// Provider defines the contract for any LLM backend
type Provider interface {
	// Chat sends a chat history to the model and returns the full response
	Chat(ctx context.Context, history []Message, options ...Option) (*ChatResult, error)

	// ChatStream invokes onDelta for each content fragment as it arrives and
	// returns the assembled result. A non-nil error from onDelta aborts the
	// stream.
	ChatStream(ctx context.Context, history []Message, onDelta func(delta string) error, options ...Option) (*ChatResult, error)
}
