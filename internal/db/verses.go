package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vnykmshr/geetanjali/internal/types"
)

const verseColumns = `canonical_id, chapter, verse_number, sanskrit_devanagari,
	sanskrit_transliteration, translations, paraphrase, principles`

func scanVerse(row pgx.Row) (*types.Verse, error) {
	var v types.Verse
	var translations []byte
	err := row.Scan(&v.CanonicalID, &v.Chapter, &v.VerseNumber, &v.SanskritDeva,
		&v.SanskritTrans, &translations, &v.Paraphrase, &v.Principles)
	if err != nil {
		return nil, err
	}
	if len(translations) > 0 {
		if err := json.Unmarshal(translations, &v.Translations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal translations: %w", err)
		}
	}
	return &v, nil
}

// UpsertVerse inserts or replaces a verse. Used by the seed command.
func (db *DB) UpsertVerse(ctx context.Context, v *types.Verse) error {
	translations, err := json.Marshal(v.Translations)
	if err != nil {
		return fmt.Errorf("failed to marshal translations: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO verses (canonical_id, chapter, verse_number, sanskrit_devanagari,
		                     sanskrit_transliteration, translations, paraphrase, principles)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (canonical_id) DO UPDATE SET
		     sanskrit_devanagari = EXCLUDED.sanskrit_devanagari,
		     sanskrit_transliteration = EXCLUDED.sanskrit_transliteration,
		     translations = EXCLUDED.translations,
		     paraphrase = EXCLUDED.paraphrase,
		     principles = EXCLUDED.principles`,
		v.CanonicalID, v.Chapter, v.VerseNumber, v.SanskritDeva,
		v.SanskritTrans, translations, v.Paraphrase, v.Principles,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert verse %s: %w", v.CanonicalID, err)
	}
	return nil
}

// GetVerse retrieves a verse by canonical id. Returns nil when not found.
func (db *DB) GetVerse(ctx context.Context, canonicalID string) (*types.Verse, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+verseColumns+` FROM verses WHERE canonical_id = $1`, canonicalID)
	v, err := scanVerse(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get verse: %w", err)
	}
	return v, nil
}

// ListVerses returns the full corpus in canonical order.
func (db *DB) ListVerses(ctx context.Context) ([]types.Verse, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+verseColumns+` FROM verses ORDER BY chapter ASC, verse_number ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list verses: %w", err)
	}
	defer rows.Close()

	var verses []types.Verse
	for rows.Next() {
		v, err := scanVerse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verse: %w", err)
		}
		verses = append(verses, *v)
	}
	return verses, nil
}

// ListVersesByChapter returns a chapter's verses in verse order.
func (db *DB) ListVersesByChapter(ctx context.Context, chapter int) ([]types.Verse, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+verseColumns+` FROM verses WHERE chapter = $1 ORDER BY verse_number ASC`, chapter)
	if err != nil {
		return nil, fmt.Errorf("failed to list verses: %w", err)
	}
	defer rows.Close()

	var verses []types.Verse
	for rows.Next() {
		v, err := scanVerse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verse: %w", err)
		}
		verses = append(verses, *v)
	}
	return verses, nil
}

// CountVerses reports how many verses are loaded. The seed command uses
// it to skip reseeding a populated corpus.
func (db *DB) CountVerses(ctx context.Context) (int, error) {
	var count int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM verses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count verses: %w", err)
	}
	return count, nil
}
