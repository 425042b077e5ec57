package validation

import (
	_ "embed"
	"encoding/json"
	"log"

	"github.com/vnykmshr/geetanjali/internal/llm"
	"github.com/vnykmshr/geetanjali/internal/types"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed output.schema.json
var outputSchema string

// Config holds the validator's thresholds.
type Config struct {
	// ConfidenceDefault is substituted when the model omits confidence.
	ConfidenceDefault float64
	// ScholarReviewThreshold: outputs below it are flagged for human review.
	ScholarReviewThreshold float64
}

// payload mirrors the model's JSON. Pointers distinguish absent fields
// from zero values so defaults apply only to what is actually missing.
type payload struct {
	ExecutiveSummary  *string                  `json:"executive_summary"`
	Options           []types.Option           `json:"options"`
	RecommendedAction *types.RecommendedAction `json:"recommended_action"`
	ReflectionPrompts []string                 `json:"reflection_prompts"`
	Sources           []types.SourceCitation   `json:"sources"`
	Confidence        *float64                 `json:"confidence"`
	PolicyViolation   bool                     `json:"policy_violation"`
}

// ValidateOutput parses the raw LLM response into an Output. It tries a
// strict parse first, then one repair pass (strip markdown fences and
// surrounding prose, extract the first balanced JSON object). A payload
// that still fails returns a ParseError; everything else is normalized:
// documented defaults for missing fields, exactly three options, a
// clamped recommendation index, and the computed scholar flag.
func ValidateOutput(raw string, cfg Config) (*types.Output, error) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		repaired := llm.ExtractJSONObject(llm.CleanJSONBlock(raw))
		if repaired == "" {
			return nil, &ParseError{Message: "no JSON object found in response", Cause: err}
		}
		if retryErr := json.Unmarshal([]byte(repaired), &p); retryErr != nil {
			return nil, &ParseError{Message: "repair pass did not yield valid JSON", Cause: retryErr}
		}
	}

	out := &types.Output{
		Options:           p.Options,
		ReflectionPrompts: p.ReflectionPrompts,
		Sources:           p.Sources,
		PolicyViolation:   p.PolicyViolation,
	}

	// Documented defaults for absent fields.
	if p.ExecutiveSummary != nil {
		out.ExecutiveSummary = *p.ExecutiveSummary
	}
	if out.Options == nil {
		out.Options = []types.Option{}
	}
	if out.ReflectionPrompts == nil {
		out.ReflectionPrompts = []string{}
	}
	if out.Sources == nil {
		out.Sources = []types.SourceCitation{}
	}
	if p.Confidence != nil {
		out.Confidence = clamp01(*p.Confidence)
	} else {
		out.Confidence = cfg.ConfidenceDefault
	}
	if p.RecommendedAction != nil {
		out.RecommendedAction = *p.RecommendedAction
	}
	if out.RecommendedAction.Steps == nil {
		out.RecommendedAction.Steps = []string{}
	}

	normalizeOptions(out)

	// Recommendation index must address an existing option.
	if out.RecommendedAction.Option < 0 || out.RecommendedAction.Option >= len(out.Options) {
		log.Printf("[validation] recommended option index %d out of range, clamping to 0",
			out.RecommendedAction.Option)
		out.RecommendedAction.Option = 0
	}

	out.ScholarFlag = out.Confidence < cfg.ScholarReviewThreshold

	checkSchema(out)

	return out, nil
}

// normalizeOptions enforces the exactly-three-options invariant.
// Extras are truncated; deficits are padded with a placeholder option,
// with a warning either way.
func normalizeOptions(out *types.Output) {
	n := len(out.Options)
	if n == types.RequiredOptionCount {
		for i := range out.Options {
			fillOptionLists(&out.Options[i])
		}
		return
	}

	log.Printf("[validation] model returned %d options, want %d", n, types.RequiredOptionCount)
	if n > types.RequiredOptionCount {
		out.Options = out.Options[:types.RequiredOptionCount]
	}
	for len(out.Options) < types.RequiredOptionCount {
		out.Options = append(out.Options, types.Option{
			Title:   "Further reflection needed",
			Pros:    []string{},
			Cons:    []string{},
			Sources: []string{},
		})
	}
	for i := range out.Options {
		fillOptionLists(&out.Options[i])
	}
}

func fillOptionLists(o *types.Option) {
	if o.Pros == nil {
		o.Pros = []string{}
	}
	if o.Cons == nil {
		o.Cons = []string{}
	}
	if o.Sources == nil {
		o.Sources = []string{}
	}
}

// checkSchema runs an advisory JSON Schema check over the normalized
// output. Failures are logged, never fatal: the normalization above is
// the enforcement layer, the schema is a drift alarm.
func checkSchema(out *types.Output) {
	doc, err := json.Marshal(out)
	if err != nil {
		return
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(outputSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		log.Printf("[validation] schema check unavailable: %v", err)
		return
	}
	for _, desc := range result.Errors() {
		log.Printf("[validation] schema warning: %s: %s", desc.Field(), desc.Description())
	}
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
