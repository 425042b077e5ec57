package types

import "fmt"

// Verse is the canonical scripture unit. Read-only reference data,
// seeded once and never mutated by the pipeline.
type Verse struct {
	CanonicalID   string            `json:"canonical_id"` // "2_47" = chapter 2, verse 47
	Chapter       int               `json:"chapter"`
	VerseNumber   int               `json:"verse_number"`
	SanskritDeva  string            `json:"sanskrit_devanagari"`
	SanskritTrans string            `json:"sanskrit_transliteration"`
	Translations  map[string]string `json:"translations"` // keyed by translator slug
	Paraphrase    string            `json:"paraphrase"`
	Principles    []string          `json:"principles"`
}

// CanonicalID encodes a chapter and verse number as "chapter_verse".
func CanonicalID(chapter, verse int) string {
	return fmt.Sprintf("%d_%d", chapter, verse)
}
