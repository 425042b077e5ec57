package prompts

import (
	"fmt"
	"strings"

	"github.com/vnykmshr/geetanjali/internal/llm"
	"github.com/vnykmshr/geetanjali/internal/retrieval"
	"github.com/vnykmshr/geetanjali/internal/types"
)

// Variant selects which system prompt tuning to use.
type Variant string

// Prompt variants: Cloud carries verbose instructions for a
// high-capability model; Local is terse and directive for smaller
// models that drift under long instructions.
const (
	VariantCloud Variant = "cloud"
	VariantLocal Variant = "local"
)

const consultFile = "consult.json"

// VariantFor maps the active provider to its prompt variant.
func VariantFor(provider llm.Provider) Variant {
	if provider == llm.ProviderOllama {
		return VariantLocal
	}
	return VariantCloud
}

// BuildConsult assembles the system and user prompts for one
// consultation. Pure and deterministic: same inputs, same prompts.
func BuildConsult(c *types.Case, verses []retrieval.RetrievedVerse, variant Variant) (system, user string) {
	systemKey := "system_cloud"
	if variant == VariantLocal {
		systemKey = "system_local"
	}
	system = MustGet(consultFile, systemKey)

	user = Format(MustGet(consultFile, "user_consult"), map[string]string{
		"Title":        c.Title,
		"Description":  c.Description,
		"Role":         orUnspecified(c.Role),
		"Stakeholders": orUnspecified(strings.Join(c.Stakeholders, ", ")),
		"Horizon":      orUnspecified(c.Horizon),
		"Verses":       formatVerses(verses),
	})
	return system, user
}

// formatVerses renders the retrieved verse list for the user prompt.
func formatVerses(verses []retrieval.RetrievedVerse) string {
	if len(verses) == 0 {
		return MustGet(consultFile, "no_verses")
	}

	entry := MustGet(consultFile, "verse_entry")
	lines := make([]string, 0, len(verses))
	for _, v := range verses {
		lines = append(lines, Format(entry, map[string]string{
			"CanonicalID": v.CanonicalID,
			"Paraphrase":  v.Paraphrase,
			"Principles":  strings.Join(v.Principles, ", "),
			"Relevance":   fmt.Sprintf("%.2f", v.Relevance),
		}))
	}
	return strings.Join(lines, "\n")
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(not specified)"
	}
	return s
}
