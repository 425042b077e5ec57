package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/geetanjali/internal/types"
)

var testConfig = Config{
	ConfidenceDefault:      0.5,
	ScholarReviewThreshold: 0.6,
}

// wellFormedPayload builds a complete, valid model response.
func wellFormedPayload() map[string]any {
	option := func(title string) map[string]any {
		return map[string]any{
			"title":   title,
			"pros":    []string{"pro one"},
			"cons":    []string{"con one"},
			"sources": []string{"2_47"},
		}
	}
	return map[string]any{
		"executive_summary": "The tension is between loyalty and duty.",
		"options": []any{
			option("Speak up now"),
			option("Give your friend a chance to self-report"),
			option("Stay silent"),
		},
		"recommended_action": map[string]any{
			"option": 1,
			"steps":  []string{"Talk to your friend", "Set a deadline", "Escalate if needed"},
		},
		"reflection_prompts": []string{
			"What would you advise a stranger in your position?",
			"Which outcome could you live with in ten years?",
		},
		"sources": []any{
			map[string]any{"canonical_id": "2_47", "paraphrase": "Act without attachment to outcomes.", "relevance": 0.91},
		},
		"confidence":       0.85,
		"scholar_flag":     false,
		"policy_violation": false,
	}
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestValidateOutput_RoundTrip(t *testing.T) {
	raw := marshal(t, wellFormedPayload())

	out, err := ValidateOutput(raw, testConfig)
	require.NoError(t, err)

	assert.Equal(t, "The tension is between loyalty and duty.", out.ExecutiveSummary)
	require.Len(t, out.Options, 3)
	assert.Equal(t, "Speak up now", out.Options[0].Title)
	assert.Equal(t, 1, out.RecommendedAction.Option)
	assert.Len(t, out.RecommendedAction.Steps, 3)
	assert.Len(t, out.ReflectionPrompts, 2)
	require.Len(t, out.Sources, 1)
	assert.Equal(t, "2_47", out.Sources[0].CanonicalID)
	assert.Equal(t, 0.85, out.Confidence)
	assert.False(t, out.ScholarFlag)
	assert.False(t, out.PolicyViolation)
}

func TestValidateOutput_RepairsMarkdownFence(t *testing.T) {
	raw := "```json\n" + marshal(t, wellFormedPayload()) + "\n```"

	out, err := ValidateOutput(raw, testConfig)
	require.NoError(t, err)
	assert.Len(t, out.Options, 3)
}

func TestValidateOutput_RepairsSurroundingProse(t *testing.T) {
	raw := "Here is the guidance:\n" + marshal(t, wellFormedPayload()) + "\nHope this helps!"

	out, err := ValidateOutput(raw, testConfig)
	require.NoError(t, err)
	assert.Equal(t, 0.85, out.Confidence)
}

func TestValidateOutput_Unparseable(t *testing.T) {
	_, err := ValidateOutput("I can't produce that for you.", testConfig)
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestValidateOutput_MissingFieldDefaults(t *testing.T) {
	out, err := ValidateOutput(`{"executive_summary": "Only a summary."}`, testConfig)
	require.NoError(t, err)

	assert.Equal(t, 0.5, out.Confidence, "missing confidence defaults to 0.5")
	assert.True(t, out.ScholarFlag, "default confidence sits below the review threshold")
	assert.False(t, out.PolicyViolation)
	assert.NotNil(t, out.ReflectionPrompts)
	assert.Empty(t, out.ReflectionPrompts)
	assert.NotNil(t, out.Sources)
	assert.Len(t, out.Options, 3, "missing options are padded to three")
	assert.Equal(t, "Further reflection needed", out.Options[0].Title)
	assert.Equal(t, 0, out.RecommendedAction.Option)
	assert.NotNil(t, out.RecommendedAction.Steps)
}

func TestValidateOutput_ScholarFlagThreshold(t *testing.T) {
	tests := []struct {
		confidence float64
		flagged    bool
	}{
		{confidence: 0.0, flagged: true},
		{confidence: 0.59, flagged: true},
		{confidence: 0.6, flagged: false},
		{confidence: 0.9, flagged: false},
	}

	for _, tt := range tests {
		p := wellFormedPayload()
		p["confidence"] = tt.confidence
		out, err := ValidateOutput(marshal(t, p), testConfig)
		require.NoError(t, err)
		assert.Equal(t, tt.flagged, out.ScholarFlag, "confidence=%v", tt.confidence)
	}
}

func TestValidateOutput_OptionCountNormalized(t *testing.T) {
	t.Run("too many options truncated", func(t *testing.T) {
		p := wellFormedPayload()
		p["options"] = []any{
			map[string]any{"title": "a"},
			map[string]any{"title": "b"},
			map[string]any{"title": "c"},
			map[string]any{"title": "d"},
			map[string]any{"title": "e"},
		}
		out, err := ValidateOutput(marshal(t, p), testConfig)
		require.NoError(t, err)
		require.Len(t, out.Options, types.RequiredOptionCount)
		assert.Equal(t, "c", out.Options[2].Title)
	})

	t.Run("too few options padded", func(t *testing.T) {
		p := wellFormedPayload()
		p["options"] = []any{map[string]any{"title": "only one"}}
		out, err := ValidateOutput(marshal(t, p), testConfig)
		require.NoError(t, err)
		require.Len(t, out.Options, types.RequiredOptionCount)
		assert.Equal(t, "only one", out.Options[0].Title)
		assert.Equal(t, "Further reflection needed", out.Options[1].Title)
		assert.NotNil(t, out.Options[1].Pros)
	})
}

func TestValidateOutput_RecommendationIndexClamped(t *testing.T) {
	for _, idx := range []int{-1, 3, 99} {
		p := wellFormedPayload()
		p["recommended_action"] = map[string]any{"option": idx, "steps": []string{"step"}}
		out, err := ValidateOutput(marshal(t, p), testConfig)
		require.NoError(t, err)
		assert.Equal(t, 0, out.RecommendedAction.Option, "index=%d", idx)
	}
}

func TestValidateOutput_ConfidenceClamped(t *testing.T) {
	p := wellFormedPayload()
	p["confidence"] = 1.4
	out, err := ValidateOutput(marshal(t, p), testConfig)
	require.NoError(t, err)
	assert.Equal(t, 1.0, out.Confidence)

	p["confidence"] = -0.2
	out, err = ValidateOutput(marshal(t, p), testConfig)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.Confidence)
}

func TestValidateOutput_NilOptionListsFilled(t *testing.T) {
	p := wellFormedPayload()
	p["options"] = []any{
		map[string]any{"title": "a"},
		map[string]any{"title": "b"},
		map[string]any{"title": "c"},
	}
	out, err := ValidateOutput(marshal(t, p), testConfig)
	require.NoError(t, err)
	for _, opt := range out.Options {
		assert.NotNil(t, opt.Pros)
		assert.NotNil(t, opt.Cons)
		assert.NotNil(t, opt.Sources)
	}
}
