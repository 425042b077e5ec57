// Package retrieval wraps the vector store holding the embedded verse
// corpus. Queries return nearest verses with similarity scores and the
// metadata the prompt builder needs for citations.
package retrieval

import "context"

// RetrievedVerse is one nearest-neighbor result from the vector store.
type RetrievedVerse struct {
	CanonicalID string   `json:"canonical_id"`
	Paraphrase  string   `json:"paraphrase"`
	Principles  []string `json:"principles"`
	Relevance   float64  `json:"relevance"` // 1 - distance, clamped to [0,1]
}

// Store is the vector search contract the pipeline consumes.
type Store interface {
	Query(ctx context.Context, vector []float32, k int) ([]RetrievedVerse, error)
}
