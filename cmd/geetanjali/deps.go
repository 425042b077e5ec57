package main

import (
	"context"
	"fmt"
	"log"

	"github.com/vnykmshr/geetanjali/internal/config"
	"github.com/vnykmshr/geetanjali/internal/db"
	"github.com/vnykmshr/geetanjali/internal/embedding"
	"github.com/vnykmshr/geetanjali/internal/llm"
	"github.com/vnykmshr/geetanjali/internal/moderation"
	"github.com/vnykmshr/geetanjali/internal/pipeline"
	"github.com/vnykmshr/geetanjali/internal/retrieval"
)

// newLLMClient builds the configured provider, wrapped with the
// fallback provider when fallback is enabled.
func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	opts := llm.Options{
		Provider:      llm.Provider(cfg.Provider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
		Temperature:   cfg.Temperature,
		Timeout:       cfg.LLMTimeout,
	}

	primary, err := llm.NewClient(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	if !cfg.FallbackEnabled {
		return primary, nil
	}

	fallbackOpts := opts
	fallbackOpts.Provider = llm.Provider(cfg.FallbackProvider)
	fallback, err := llm.NewClient(ctx, fallbackOpts)
	if err != nil {
		// A misconfigured fallback should not take the service down.
		log.Printf("[main] fallback provider %s unavailable, continuing without: %v", cfg.FallbackProvider, err)
		return primary, nil
	}

	return llm.WithFallback(primary, fallback), nil
}

// newRetrieval builds the embedder and vector store. Failures here are
// logged and tolerated: the pipeline degrades to verse-less runs.
func newRetrieval(cfg *config.Config) (embedding.Embedder, retrieval.Store) {
	embedder, err := embedding.New(cfg.EmbeddingBaseURL, cfg.EmbeddingModel, cfg.LLMTimeout)
	if err != nil {
		log.Printf("[main] embedder unavailable, verses disabled: %v", err)
		return nil, nil
	}

	store, err := retrieval.NewChromaStore(cfg.ChromaBaseURL, cfg.ChromaCollection, cfg.LLMTimeout)
	if err != nil {
		log.Printf("[main] vector store unavailable, verses disabled: %v", err)
		return nil, nil
	}

	return embedder, store
}

// newRunner wires the full consultation pipeline. database may be nil
// for one-shot CLI runs.
func newRunner(ctx context.Context, cfg *config.Config, database *db.DB) (*pipeline.Runner, llm.Client, error) {
	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	embedder, store := newRetrieval(cfg)

	var pipeDB pipeline.Store
	if database != nil {
		pipeDB = database
	}

	runner := pipeline.New(cfg,
		moderation.NewBlocklist(cfg.ContentFilterEnabled && cfg.BlocklistEnabled),
		moderation.NewRefusalDetector(cfg.ContentFilterEnabled && cfg.RefusalDetectionEnabled),
		embedder, store, client, pipeDB)

	return runner, client, nil
}
