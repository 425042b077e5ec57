// Package embedding wraps an OpenAI-compatible embeddings endpoint
// (typically a local Ollama server) behind a minimal adapter.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Dimensions is the expected embedding vector length.
const Dimensions = 384

// Embedder converts text to a fixed-length numeric vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Client implements Embedder over the OpenAI embeddings API.
type Client struct {
	client *openai.Client
	model  string
}

// New creates an embedding client for the given base URL and model.
func New(baseURL, model string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("embedding base URL is required")
	}
	if model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}

	clientConfig := openai.DefaultConfig("embeddings") // key unused by local servers
	clientConfig.BaseURL = baseURL
	if timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Embed returns the embedding vector for text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding in response")
	}

	vector := resp.Data[0].Embedding
	if len(vector) != Dimensions {
		return nil, fmt.Errorf("unexpected embedding dimension %d, want %d", len(vector), Dimensions)
	}
	return vector, nil
}
