// Package config provides environment-driven configuration for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration. It is loaded once at startup
// and passed explicitly into constructors; no package reads the
// environment after Load returns.
type Config struct {
	// Server
	Port        int
	DatabaseURL string

	// LLM providers
	Provider         string // "gemini" or "ollama"
	FallbackProvider string // used only when the primary fails
	FallbackEnabled  bool
	GeminiAPIKey     string
	GeminiModel      string
	OllamaBaseURL    string
	OllamaModel      string
	Temperature      float64
	LLMTimeout       time.Duration // pass-through to provider clients

	// Embeddings + retrieval
	EmbeddingBaseURL string
	EmbeddingModel   string
	ChromaBaseURL    string
	ChromaCollection string
	RetrievalTopK    int

	// Content moderation switches, each independently togglable.
	ContentFilterEnabled    bool // master switch
	BlocklistEnabled        bool
	RefusalDetectionEnabled bool

	// Output validation
	ConfidenceDefault      float64
	ScholarReviewThreshold float64

	// Worker
	WorkerConcurrency int
	WorkerPoll        time.Duration
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() *Config {
	return &Config{
		Port:        envInt("PORT", 8080),
		DatabaseURL: envFirst("GEETANJALI_DATABASE_URL", "DATABASE_URL"),

		Provider:         envString("LLM_PROVIDER", "gemini"),
		FallbackProvider: envString("LLM_FALLBACK_PROVIDER", "ollama"),
		FallbackEnabled:  envBool("LLM_FALLBACK_ENABLED", true),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envString("GEMINI_MODEL", "gemini-2.5-flash"),
		OllamaBaseURL:    envString("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		OllamaModel:      envString("OLLAMA_MODEL", "llama3.1:8b"),
		Temperature:      envFloat("LLM_TEMPERATURE", 0.4),
		LLMTimeout:       time.Duration(envInt("LLM_TIMEOUT_SECONDS", 120)) * time.Second,

		EmbeddingBaseURL: envString("EMBEDDING_BASE_URL", "http://localhost:11434/v1"),
		EmbeddingModel:   envString("EMBEDDING_MODEL", "all-minilm"),
		ChromaBaseURL:    envString("CHROMA_BASE_URL", "http://localhost:8000"),
		ChromaCollection: envString("CHROMA_COLLECTION", "geeta_verses"),
		RetrievalTopK:    envInt("RETRIEVAL_TOP_K", 5),

		ContentFilterEnabled:    envBool("CONTENT_FILTER_ENABLED", true),
		BlocklistEnabled:        envBool("BLOCKLIST_ENABLED", true),
		RefusalDetectionEnabled: envBool("REFUSAL_DETECTION_ENABLED", true),

		ConfidenceDefault:      envFloat("CONFIDENCE_DEFAULT", 0.5),
		ScholarReviewThreshold: envFloat("SCHOLAR_REVIEW_THRESHOLD", 0.6),

		WorkerConcurrency: envInt("WORKER_CONCURRENCY", 4),
		WorkerPoll:        time.Duration(envInt("WORKER_POLL_SECONDS", 5)) * time.Second,
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: GEETANJALI_DATABASE_URL or DATABASE_URL is required")
	}
	return c.ValidatePipeline()
}

// ValidatePipeline checks the pipeline-facing configuration only.
// One-shot CLI runs use this; they need no database.
func (c *Config) ValidatePipeline() error {
	if c.Provider != "gemini" && c.Provider != "ollama" {
		return fmt.Errorf("config error: unknown LLM_PROVIDER %q", c.Provider)
	}
	if c.FallbackEnabled && c.FallbackProvider == c.Provider {
		return fmt.Errorf("config error: fallback provider must differ from primary")
	}
	if c.Provider == "gemini" && c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
	}
	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("config error: RETRIEVAL_TOP_K must be positive")
	}
	if c.ScholarReviewThreshold < 0 || c.ScholarReviewThreshold > 1 {
		return fmt.Errorf("config error: SCHOLAR_REVIEW_THRESHOLD must be in [0,1]")
	}
	if c.ConfidenceDefault < 0 || c.ConfidenceDefault > 1 {
		return fmt.Errorf("config error: CONFIDENCE_DEFAULT must be in [0,1]")
	}
	if c.WorkerConcurrency <= 0 {
		return fmt.Errorf("config error: WORKER_CONCURRENCY must be positive")
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envFirst(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
