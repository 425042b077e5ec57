// Package llm provides the LLM provider abstraction: a Gemini client for
// cloud generation, an OpenAI-compatible client for local Ollama models,
// and a fallback decorator that chains the two.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider identifies an LLM provider.
type Provider string

// Supported providers.
const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// ErrAllProvidersFailed is returned by the fallback client when the
// primary and the fallback provider both fail.
var ErrAllProvidersFailed = errors.New("all LLM providers failed")

// Client is an abstraction over LLM providers.
type Client interface {
	// Generate produces raw text from a system prompt and a user prompt.
	Generate(ctx context.Context, system, user string) (string, error)
	// Name returns the provider identifier for logging.
	Name() Provider
	// Close releases any resources held by the client.
	Close() error
}

// Options holds provider construction parameters.
type Options struct {
	Provider      Provider
	GeminiAPIKey  string
	GeminiModel   string
	OllamaBaseURL string
	OllamaModel   string
	Temperature   float64
	Timeout       time.Duration // pass-through request timeout
}

// NewClient creates a client for the configured provider.
func NewClient(ctx context.Context, opts Options) (Client, error) {
	switch opts.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, opts)
	case ProviderOllama:
		return NewOllamaClient(opts)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", opts.Provider)
	}
}
