// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/vnykmshr/geetanjali/internal/retrieval"
	"github.com/vnykmshr/geetanjali/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCase outputs a summary of the submitted dilemma.
func (p *Printer) PrintCase(c *types.Case) {
	if c == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", c.Title))
	if c.Role != "" {
		sb.WriteString(fmt.Sprintf("Role:     %s\n", c.Role))
	}
	if len(c.Stakeholders) > 0 {
		sb.WriteString(fmt.Sprintf("Parties:  %s\n", strings.Join(c.Stakeholders, ", ")))
	}
	if c.Horizon != "" {
		sb.WriteString(fmt.Sprintf("Horizon:  %s\n", c.Horizon))
	}

	p.printBox("CASE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRetrievedVerses outputs the verses retrieved for grounding.
func (p *Printer) PrintRetrievedVerses(verses []retrieval.RetrievedVerse) {
	if len(verses) == 0 {
		p.printBox("RETRIEVED VERSES", "(none; proceeding without citations)")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Retrieved %d verses:\n\n", len(verses)))

	count := min(len(verses), maxItemsToShow)
	for i := 0; i < count; i++ {
		v := verses[i]
		sb.WriteString(fmt.Sprintf("#%d  BG %s  (%.2f)\n", i+1, strings.Replace(v.CanonicalID, "_", ".", 1), v.Relevance))
		paraphrase := v.Paraphrase
		if len(paraphrase) > 50 {
			paraphrase = paraphrase[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("    %s\n", paraphrase))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(verses) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more verses", len(verses)-maxItemsToShow))
	}

	p.printBox("RETRIEVED VERSES", sb.String())
}

// PrintOutput renders the full consultation result.
func (p *Printer) PrintOutput(out *types.Output) {
	if out == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(out.ExecutiveSummary)
	sb.WriteString("\n")
	p.printBox("EXECUTIVE SUMMARY", strings.TrimSuffix(sb.String(), "\n"))

	sb.Reset()
	for i, opt := range out.Options {
		marker := " "
		if i == out.RecommendedAction.Option {
			marker = "★"
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s\n", marker, i+1, opt.Title))
		for _, pro := range opt.Pros {
			sb.WriteString(fmt.Sprintf("    + %s\n", pro))
		}
		for _, con := range opt.Cons {
			sb.WriteString(fmt.Sprintf("    - %s\n", con))
		}
		if len(opt.Sources) > 0 {
			sb.WriteString(fmt.Sprintf("    [%s]\n", strings.Join(opt.Sources, ", ")))
		}
		if i < len(out.Options)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("OPTIONS (★ = recommended)", strings.TrimSuffix(sb.String(), "\n"))

	if len(out.RecommendedAction.Steps) > 0 {
		sb.Reset()
		for i, step := range out.RecommendedAction.Steps {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
		}
		p.printBox("NEXT STEPS", strings.TrimSuffix(sb.String(), "\n"))
	}

	if len(out.ReflectionPrompts) > 0 {
		sb.Reset()
		for _, prompt := range out.ReflectionPrompts {
			sb.WriteString(fmt.Sprintf("• %s\n", prompt))
		}
		p.printBox("REFLECTION PROMPTS", strings.TrimSuffix(sb.String(), "\n"))
	}

	sb.Reset()
	sb.WriteString(fmt.Sprintf("Confidence: %.2f\n", out.Confidence))
	if out.ScholarFlag {
		sb.WriteString("⚠ Flagged for scholar review\n")
	}
	if out.PolicyViolation {
		sb.WriteString("⚠ Policy violation\n")
	}
	if len(out.Sources) > 0 {
		sb.WriteString("\nSources:\n")
		count := min(len(out.Sources), maxItemsToShow)
		for i := 0; i < count; i++ {
			src := out.Sources[i]
			sb.WriteString(fmt.Sprintf("  BG %s (%.2f)\n", strings.Replace(src.CanonicalID, "_", ".", 1), src.Relevance))
		}
		if len(out.Sources) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(out.Sources)-maxItemsToShow))
		}
	}
	p.printBox("VERDICT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintModeration outputs the result of a standalone blocklist check.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintModeration(result types.ModerationResult) {
	if !result.Blocked {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ CONTENT ACCEPTED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚠ blocked: %s\n", result.Violation))
	p.printBox("CONTENT BLOCKED", strings.TrimSuffix(sb.String(), "\n"))
}
