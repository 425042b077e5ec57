package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OllamaClient implements Client against any OpenAI-compatible chat
// endpoint. In practice this is a local Ollama server's /v1 API, which
// needs no API key.
type OllamaClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOllamaClient creates a client for an OpenAI-compatible endpoint.
func NewOllamaClient(opts Options) (*OllamaClient, error) {
	if opts.OllamaBaseURL == "" {
		return nil, fmt.Errorf("Ollama base URL is required")
	}

	clientConfig := openai.DefaultConfig("ollama") // key is ignored by Ollama but must be non-empty
	clientConfig.BaseURL = opts.OllamaBaseURL
	if opts.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: opts.Timeout}
	} else {
		clientConfig.HTTPClient = &http.Client{Timeout: 120 * time.Second}
	}

	return &OllamaClient{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       opts.OllamaModel,
		temperature: float32(opts.Temperature),
	}, nil
}

// Generate produces raw text for the given prompts.
func (c *OllamaClient) Generate(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("ollama generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

// Name returns the provider identifier.
func (c *OllamaClient) Name() Provider {
	return ProviderOllama
}

// Close is a no-op; the underlying HTTP client holds no resources.
func (c *OllamaClient) Close() error {
	return nil
}
