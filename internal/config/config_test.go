package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/geetanjali")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "ollama", cfg.FallbackProvider)
	assert.True(t, cfg.FallbackEnabled)
	assert.Equal(t, "http://localhost:11434/v1", cfg.OllamaBaseURL)
	assert.Equal(t, "all-minilm", cfg.EmbeddingModel)
	assert.Equal(t, "geeta_verses", cfg.ChromaCollection)
	assert.Equal(t, 5, cfg.RetrievalTopK)
	assert.True(t, cfg.ContentFilterEnabled)
	assert.True(t, cfg.BlocklistEnabled)
	assert.True(t, cfg.RefusalDetectionEnabled)
	assert.Equal(t, 0.5, cfg.ConfidenceDefault)
	assert.Equal(t, 0.6, cfg.ScholarReviewThreshold)
	assert.Equal(t, 4, cfg.WorkerConcurrency)
	assert.Equal(t, 5*time.Second, cfg.WorkerPoll)

	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GEETANJALI_DATABASE_URL", "postgres://primary/db")
	t.Setenv("DATABASE_URL", "postgres://fallback/db")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("LLM_FALLBACK_ENABLED", "false")
	t.Setenv("RETRIEVAL_TOP_K", "8")
	t.Setenv("SCHOLAR_REVIEW_THRESHOLD", "0.75")
	t.Setenv("CONTENT_FILTER_ENABLED", "false")
	t.Setenv("WORKER_CONCURRENCY", "2")

	cfg := Load()

	assert.Equal(t, "postgres://primary/db", cfg.DatabaseURL, "GEETANJALI_ prefix wins")
	assert.Equal(t, "ollama", cfg.Provider)
	assert.False(t, cfg.FallbackEnabled)
	assert.Equal(t, 8, cfg.RetrievalTopK)
	assert.Equal(t, 0.75, cfg.ScholarReviewThreshold)
	assert.False(t, cfg.ContentFilterEnabled)
	assert.Equal(t, 2, cfg.WorkerConcurrency)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/geetanjali")
	t.Setenv("RETRIEVAL_TOP_K", "not-a-number")
	t.Setenv("LLM_FALLBACK_ENABLED", "not-a-bool")
	t.Setenv("CONFIDENCE_DEFAULT", "abc")

	cfg := Load()

	assert.Equal(t, 5, cfg.RetrievalTopK)
	assert.True(t, cfg.FallbackEnabled)
	assert.Equal(t, 0.5, cfg.ConfidenceDefault)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DatabaseURL:            "postgres://localhost/geetanjali",
			Provider:               "ollama",
			FallbackProvider:       "gemini",
			RetrievalTopK:          5,
			ConfidenceDefault:      0.5,
			ScholarReviewThreshold: 0.6,
			WorkerConcurrency:      4,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing database", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL"},
		{name: "unknown provider", mutate: func(c *Config) { c.Provider = "claude" }, wantErr: "LLM_PROVIDER"},
		{name: "gemini without key", mutate: func(c *Config) { c.Provider = "gemini"; c.FallbackProvider = "ollama" }, wantErr: "GEMINI_API_KEY"},
		{name: "fallback equals primary", mutate: func(c *Config) { c.FallbackEnabled = true; c.FallbackProvider = "ollama" }, wantErr: "fallback"},
		{name: "top-k zero", mutate: func(c *Config) { c.RetrievalTopK = 0 }, wantErr: "RETRIEVAL_TOP_K"},
		{name: "threshold out of range", mutate: func(c *Config) { c.ScholarReviewThreshold = 1.5 }, wantErr: "SCHOLAR_REVIEW_THRESHOLD"},
		{name: "zero workers", mutate: func(c *Config) { c.WorkerConcurrency = 0 }, wantErr: "WORKER_CONCURRENCY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidatePipeline_NoDatabaseNeeded(t *testing.T) {
	cfg := &Config{
		Provider:               "ollama",
		FallbackProvider:       "gemini",
		FallbackEnabled:        false,
		RetrievalTopK:          5,
		ConfidenceDefault:      0.5,
		ScholarReviewThreshold: 0.6,
		WorkerConcurrency:      1,
	}
	assert.NoError(t, cfg.ValidatePipeline())
}
