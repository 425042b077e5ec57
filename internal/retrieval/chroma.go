package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ChromaStore implements Store over the Chroma REST API.
type ChromaStore struct {
	baseURL    string
	collection string
	httpClient *http.Client

	mu           sync.Mutex
	collectionID string // resolved lazily from the collection name
}

// NewChromaStore creates a vector store client for one Chroma collection.
func NewChromaStore(baseURL, collection string, timeout time.Duration) (*ChromaStore, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("chroma base URL is required")
	}
	if collection == "" {
		return nil, fmt.Errorf("chroma collection name is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromaStore{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		collection: collection,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type chromaCollection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type chromaQueryRequest struct {
	QueryEmbeddings [][]float32 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

type chromaQueryResponse struct {
	IDs       [][]string         `json:"ids"`
	Distances [][]float64        `json:"distances"`
	Metadatas [][]map[string]any `json:"metadatas"`
}

// Query returns the k nearest verses for the given embedding vector.
func (s *ChromaStore) Query(ctx context.Context, vector []float32, k int) ([]RetrievedVerse, error) {
	collectionID, err := s.resolveCollectionID(ctx)
	if err != nil {
		return nil, err
	}

	reqBody := chromaQueryRequest{
		QueryEmbeddings: [][]float32{vector},
		NResults:        k,
		Include:         []string{"metadatas", "distances"},
	}

	var resp chromaQueryResponse
	url := fmt.Sprintf("%s/api/v1/collections/%s/query", s.baseURL, collectionID)
	if err := s.postJSON(ctx, url, reqBody, &resp); err != nil {
		return nil, fmt.Errorf("chroma query failed: %w", err)
	}

	if len(resp.IDs) == 0 {
		return nil, nil
	}

	results := make([]RetrievedVerse, 0, len(resp.IDs[0]))
	for i, id := range resp.IDs[0] {
		verse := RetrievedVerse{CanonicalID: id}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			verse.Relevance = clamp01(1 - resp.Distances[0][i])
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			meta := resp.Metadatas[0][i]
			if v, ok := meta["canonical_id"].(string); ok && v != "" {
				verse.CanonicalID = v
			}
			if v, ok := meta["paraphrase"].(string); ok {
				verse.Paraphrase = v
			}
			// Chroma metadata is flat; principle tags are stored comma-joined.
			if v, ok := meta["principles"].(string); ok && v != "" {
				verse.Principles = strings.Split(v, ",")
			}
		}
		results = append(results, verse)
	}
	return results, nil
}

// Add upserts verse embeddings into the collection. Used by the seed
// command only; the pipeline never writes.
func (s *ChromaStore) Add(ctx context.Context, ids []string, vectors [][]float32, metadatas []map[string]any) error {
	collectionID, err := s.resolveCollectionID(ctx)
	if err != nil {
		return err
	}

	reqBody := map[string]any{
		"ids":        ids,
		"embeddings": vectors,
		"metadatas":  metadatas,
	}
	url := fmt.Sprintf("%s/api/v1/collections/%s/upsert", s.baseURL, collectionID)
	if err := s.postJSON(ctx, url, reqBody, nil); err != nil {
		return fmt.Errorf("chroma upsert failed: %w", err)
	}
	return nil
}

// resolveCollectionID looks up (or creates) the collection and caches its id.
func (s *ChromaStore) resolveCollectionID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collectionID != "" {
		return s.collectionID, nil
	}

	var col chromaCollection
	url := fmt.Sprintf("%s/api/v1/collections", s.baseURL)
	if err := s.postJSON(ctx, url, map[string]any{"name": s.collection, "get_or_create": true}, &col); err != nil {
		return "", fmt.Errorf("chroma collection lookup failed: %w", err)
	}
	if col.ID == "" {
		return "", fmt.Errorf("chroma returned no collection id for %q", s.collection)
	}
	s.collectionID = col.ID
	return s.collectionID, nil
}

func (s *ChromaStore) postJSON(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
