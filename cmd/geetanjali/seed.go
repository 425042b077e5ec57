package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vnykmshr/geetanjali/internal/config"
	"github.com/vnykmshr/geetanjali/internal/db"
	"github.com/vnykmshr/geetanjali/internal/embedding"
	"github.com/vnykmshr/geetanjali/internal/retrieval"
	"github.com/vnykmshr/geetanjali/internal/types"
)

var (
	seedFile        string
	seedSkipVectors bool
	seedForce       bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the verse corpus",
	Long: `Load verses from a JSON file into Postgres and index their paraphrase
embeddings into the vector store. A populated corpus is left untouched
unless --force is given.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "data/verses.json", "Path to the verse corpus JSON")
	seedCmd.Flags().BoolVar(&seedSkipVectors, "skip-vectors", false, "Seed Postgres only, skip embedding")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Reseed even when verses already exist")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("failed to read corpus file: %w", err)
	}

	var verses []types.Verse
	if err := json.Unmarshal(data, &verses); err != nil {
		return fmt.Errorf("failed to parse corpus file: %w", err)
	}
	if len(verses) == 0 {
		return fmt.Errorf("corpus file contains no verses")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	count, err := database.CountVerses(ctx)
	if err != nil {
		return err
	}
	if count > 0 && !seedForce {
		log.Printf("[seed] corpus already has %d verses, nothing to do (use --force to reseed)", count)
		return nil
	}

	for i := range verses {
		v := &verses[i]
		if v.CanonicalID == "" {
			v.CanonicalID = types.CanonicalID(v.Chapter, v.VerseNumber)
		}
		if err := database.UpsertVerse(ctx, v); err != nil {
			return err
		}
	}
	log.Printf("[seed] loaded %d verses into Postgres", len(verses))

	if seedSkipVectors {
		return nil
	}
	return seedVectors(ctx, cfg, verses)
}

// seedVectors embeds each verse paraphrase and upserts the vectors.
func seedVectors(ctx context.Context, cfg *config.Config, verses []types.Verse) error {
	embedder, err := embedding.New(cfg.EmbeddingBaseURL, cfg.EmbeddingModel, cfg.LLMTimeout)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	store, err := retrieval.NewChromaStore(cfg.ChromaBaseURL, cfg.ChromaCollection, cfg.LLMTimeout)
	if err != nil {
		return fmt.Errorf("failed to create vector store: %w", err)
	}

	const batchSize = 50
	for start := 0; start < len(verses); start += batchSize {
		end := min(start+batchSize, len(verses))
		batch := verses[start:end]

		ids := make([]string, 0, len(batch))
		vectors := make([][]float32, 0, len(batch))
		metadatas := make([]map[string]any, 0, len(batch))

		for _, v := range batch {
			// The paraphrase and principle tags carry the ethical content;
			// the Sanskrit is kept out of the embedding space.
			text := v.Paraphrase
			if len(v.Principles) > 0 {
				text += "\n" + strings.Join(v.Principles, ", ")
			}
			vector, err := embedder.Embed(ctx, text)
			if err != nil {
				return fmt.Errorf("failed to embed verse %s: %w", v.CanonicalID, err)
			}

			ids = append(ids, v.CanonicalID)
			vectors = append(vectors, vector)
			metadatas = append(metadatas, map[string]any{
				"canonical_id": v.CanonicalID,
				"paraphrase":   v.Paraphrase,
				"principles":   strings.Join(v.Principles, ","),
			})
		}

		if err := store.Add(ctx, ids, vectors, metadatas); err != nil {
			return err
		}
		log.Printf("[seed] indexed %d/%d verse embeddings", end, len(verses))
	}

	return nil
}
