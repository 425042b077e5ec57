package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vnykmshr/geetanjali/internal/retrieval"
	"github.com/vnykmshr/geetanjali/internal/types"
)

func TestPrintCase(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCase(&types.Case{
		Title:        "Report a colleague?",
		Role:         "engineer",
		Stakeholders: []string{"me", "team"},
		Horizon:      "this week",
	})

	out := buf.String()
	assert.Contains(t, out, "CASE")
	assert.Contains(t, out, "Report a colleague?")
	assert.Contains(t, out, "engineer")
	assert.Contains(t, out, "me, team")
}

func TestPrintCase_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCase(nil)
	assert.Empty(t, buf.String())
}

func TestPrintRetrievedVerses(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRetrievedVerses([]retrieval.RetrievedVerse{
		{CanonicalID: "2_47", Paraphrase: "Act without attachment to outcomes.", Relevance: 0.91},
	})

	out := buf.String()
	assert.Contains(t, out, "BG 2.47")
	assert.Contains(t, out, "0.91")
}

func TestPrintRetrievedVerses_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRetrievedVerses(nil)
	assert.Contains(t, buf.String(), "without citations")
}

func TestPrintOutput(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintOutput(&types.Output{
		ExecutiveSummary: "The tension is loyalty versus duty.",
		Options: []types.Option{
			{Title: "Speak up", Pros: []string{"honest"}, Cons: []string{"costly"}, Sources: []string{"2_47"}},
			{Title: "Wait", Pros: []string{}, Cons: []string{}, Sources: []string{}},
			{Title: "Stay silent", Pros: []string{}, Cons: []string{}, Sources: []string{}},
		},
		RecommendedAction: types.RecommendedAction{Option: 0, Steps: []string{"Talk first"}},
		ReflectionPrompts: []string{"What would you tell a friend?"},
		Sources:           []types.SourceCitation{{CanonicalID: "2_47", Relevance: 0.9}},
		Confidence:        0.85,
	})

	out := buf.String()
	assert.Contains(t, out, "EXECUTIVE SUMMARY")
	assert.Contains(t, out, "★ 1. Speak up")
	assert.Contains(t, out, "NEXT STEPS")
	assert.Contains(t, out, "Confidence: 0.85")
	assert.NotContains(t, out, "scholar review")
}

func TestPrintOutput_ScholarFlagged(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintOutput(&types.Output{
		ExecutiveSummary:  "Low confidence guidance.",
		Options:           []types.Option{{Title: "a"}, {Title: "b"}, {Title: "c"}},
		RecommendedAction: types.RecommendedAction{},
		Confidence:        0.3,
		ScholarFlag:       true,
	})

	assert.Contains(t, buf.String(), "scholar review")
}

func TestPrintModeration(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.PrintModeration(types.ModerationResult{})
	assert.Contains(t, buf.String(), "CONTENT ACCEPTED")

	buf.Reset()
	p.PrintModeration(types.ModerationResult{Blocked: true, Violation: types.ViolationSpamGibberish})
	assert.Contains(t, buf.String(), "CONTENT BLOCKED")
	assert.Contains(t, buf.String(), "spam_gibberish")
}
