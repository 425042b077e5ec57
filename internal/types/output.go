package types

import (
	"time"

	"github.com/google/uuid"
)

// Option is one of the three courses of action proposed for a case.
type Option struct {
	Title   string   `json:"title"`
	Pros    []string `json:"pros"`
	Cons    []string `json:"cons"`
	Sources []string `json:"sources"` // canonical verse ids, e.g. "2_47"
}

// RecommendedAction points at one option and lists concrete ordered steps.
type RecommendedAction struct {
	Option int      `json:"option"` // index into Options, [0, len)
	Steps  []string `json:"steps"`
}

// SourceCitation cites one retrieved verse that grounded the guidance.
type SourceCitation struct {
	CanonicalID string  `json:"canonical_id"`
	Paraphrase  string  `json:"paraphrase"`
	Relevance   float64 `json:"relevance"`
}

// Output is the structured result of one pipeline run for a case.
// Immutable once created. A failed or refused run still produces an
// Output carrying a fallback or policy-violation payload.
type Output struct {
	ID                uuid.UUID         `json:"id"`
	CaseID            uuid.UUID         `json:"case_id"`
	ExecutiveSummary  string            `json:"executive_summary"`
	Options           []Option          `json:"options"`
	RecommendedAction RecommendedAction `json:"recommended_action"`
	ReflectionPrompts []string          `json:"reflection_prompts"`
	Sources           []SourceCitation  `json:"sources"`
	Confidence        float64           `json:"confidence"`
	ScholarFlag       bool              `json:"scholar_flag"`
	PolicyViolation   bool              `json:"policy_violation"`
	CreatedAt         time.Time         `json:"created_at"`
}

// RequiredOptionCount is the invariant length of Output.Options.
const RequiredOptionCount = 3
