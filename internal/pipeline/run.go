// Package pipeline orchestrates one consultation run: moderate, embed,
// retrieve verses, prompt the LLM, detect refusals, and validate the
// structured output into a terminal case state.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/vnykmshr/geetanjali/internal/config"
	"github.com/vnykmshr/geetanjali/internal/embedding"
	"github.com/vnykmshr/geetanjali/internal/llm"
	"github.com/vnykmshr/geetanjali/internal/moderation"
	"github.com/vnykmshr/geetanjali/internal/prompts"
	"github.com/vnykmshr/geetanjali/internal/retrieval"
	"github.com/vnykmshr/geetanjali/internal/types"
	"github.com/vnykmshr/geetanjali/internal/validation"
)

// PolicyViolationMessage is the fixed educational payload returned when
// the model refuses on safety grounds or a follow-up trips the blocklist.
const PolicyViolationMessage = "This consultation could not be completed. Geetanjali offers guidance " +
	"on ethical dilemmas and cannot engage with content of this nature. " +
	"If you believe this was a mistake, please rephrase your situation."

// FallbackMessage is the generic payload for runs where generation or
// output validation failed after the fallback provider was exhausted.
const FallbackMessage = "We were unable to generate guidance for this consultation. " +
	"This is usually temporary; please retry in a few minutes."

// Store is the persistence surface the pipeline needs. A nil Store
// (one-shot CLI runs) skips persistence entirely.
type Store interface {
	SetCaseStatus(ctx context.Context, caseID uuid.UUID, status types.CaseStatus) error
	CreateOutput(ctx context.Context, out *types.Output) error
}

// Result is the outcome of one pipeline run. Verses holds what retrieval
// produced for this run; verbose CLI output renders it.
type Result struct {
	Status types.CaseStatus
	Output *types.Output
	Verses []retrieval.RetrievedVerse
}

// Runner sequences the consultation pipeline. Each Run is independent;
// a Runner is safe for concurrent use by multiple worker goroutines.
type Runner struct {
	cfg       *config.Config
	blocklist *moderation.Blocklist
	refusal   *moderation.RefusalDetector
	embedder  embedding.Embedder
	store     retrieval.Store
	client    llm.Client
	db        Store
}

// New builds a Runner from its collaborators. embedder and store may be
// nil only together with a deliberate retrieval-less deployment; the
// pipeline treats their absence like a retrieval failure (degraded run).
func New(cfg *config.Config, blocklist *moderation.Blocklist, refusal *moderation.RefusalDetector,
	embedder embedding.Embedder, store retrieval.Store, client llm.Client, db Store) *Runner {
	return &Runner{
		cfg:       cfg,
		blocklist: blocklist,
		refusal:   refusal,
		embedder:  embedder,
		store:     store,
		client:    client,
		db:        db,
	}
}

// Run executes the pipeline for one case. The case must already be in
// StatusProcessing (claimed by the caller). Run never returns an error
// for pipeline-internal failures: every failure mode resolves to a
// well-formed Result. The three-tier policy: retrieval failure degrades,
// generation failure falls back then fails, a refusal always
// short-circuits to a policy violation.
func (r *Runner) Run(ctx context.Context, c *types.Case) *Result {
	// Follow-up text is re-checked so a clean initial submission cannot
	// smuggle blocked content into the conversation later.
	if result := r.blocklist.Check(c.Title + "\n" + c.Description); result.Blocked {
		return r.finish(ctx, c, types.StatusPolicyViolation, r.policyViolationOutput(c.ID), nil)
	}

	verses := r.retrieveVerses(ctx, c)

	variant := prompts.VariantFor(r.client.Name())
	system, user := prompts.BuildConsult(c, verses, variant)

	raw, err := r.client.Generate(ctx, system, user)
	if err != nil {
		log.Printf("[pipeline] case=%s generation failed: %v", c.ID, err)
		return r.finish(ctx, c, types.StatusFailed, r.fallbackOutput(c.ID), verses)
	}

	// Refusals are prose; detect them before JSON parsing so the seeker
	// gets the policy message instead of a parse error.
	if r.refusal.Detect(raw) {
		log.Printf("[pipeline] case=%s provider refused", c.ID)
		return r.finish(ctx, c, types.StatusPolicyViolation, r.policyViolationOutput(c.ID), verses)
	}

	out, err := validation.ValidateOutput(raw, validation.Config{
		ConfidenceDefault:      r.cfg.ConfidenceDefault,
		ScholarReviewThreshold: r.cfg.ScholarReviewThreshold,
	})
	if err != nil {
		log.Printf("[pipeline] case=%s output validation failed: %v", c.ID, err)
		return r.finish(ctx, c, types.StatusFailed, r.fallbackOutput(c.ID), verses)
	}

	// Citations must come from this run's retrieval; a degraded run
	// carries none, whatever the model claims.
	out.Sources = citedSources(out.Sources, verses)

	out.ID = uuid.New()
	out.CaseID = c.ID
	out.CreatedAt = time.Now().UTC()
	return r.finish(ctx, c, types.StatusCompleted, out, verses)
}

// citedSources keeps only citations for verses actually retrieved this run.
func citedSources(sources []types.SourceCitation, verses []retrieval.RetrievedVerse) []types.SourceCitation {
	if len(verses) == 0 {
		return []types.SourceCitation{}
	}
	retrieved := make(map[string]bool, len(verses))
	for _, v := range verses {
		retrieved[v.CanonicalID] = true
	}
	kept := make([]types.SourceCitation, 0, len(sources))
	for _, src := range sources {
		if retrieved[src.CanonicalID] {
			kept = append(kept, src)
		} else {
			log.Printf("[pipeline] dropping fabricated citation %s", src.CanonicalID)
		}
	}
	return kept
}

// retrieveVerses embeds the description and queries the vector store.
// Any failure here is non-fatal: the consultation proceeds without
// cited verses rather than blocking on transient retrieval noise.
func (r *Runner) retrieveVerses(ctx context.Context, c *types.Case) []retrieval.RetrievedVerse {
	if r.embedder == nil || r.store == nil {
		return nil
	}

	vector, err := r.embedder.Embed(ctx, c.Description)
	if err != nil {
		log.Printf("[pipeline] case=%s embedding failed, continuing without verses: %v", c.ID, err)
		return nil
	}

	verses, err := r.store.Query(ctx, vector, r.cfg.RetrievalTopK)
	if err != nil {
		log.Printf("[pipeline] case=%s verse retrieval failed, continuing without verses: %v", c.ID, err)
		return nil
	}
	return verses
}

// finish persists the output and terminal status, best-effort. A case
// whose state machine does not permit the transition is left untouched;
// it was not claimed by this runner.
func (r *Runner) finish(ctx context.Context, c *types.Case, status types.CaseStatus,
	out *types.Output, verses []retrieval.RetrievedVerse) *Result {
	if !c.Status.CanTransition(status) {
		log.Printf("[pipeline] case=%s refusing transition %s -> %s", c.ID, c.Status, status)
		return &Result{Status: c.Status, Verses: verses}
	}
	if r.db != nil {
		if out != nil {
			if err := r.db.CreateOutput(ctx, out); err != nil {
				log.Printf("[pipeline] case=%s failed to persist output: %v", c.ID, err)
			}
		}
		if err := r.db.SetCaseStatus(ctx, c.ID, status); err != nil {
			log.Printf("[pipeline] case=%s failed to persist status %s: %v", c.ID, status, err)
		}
	}
	c.Status = status
	return &Result{Status: status, Output: out, Verses: verses}
}

// policyViolationOutput is the fixed payload for refused consultations.
func (r *Runner) policyViolationOutput(caseID uuid.UUID) *types.Output {
	return &types.Output{
		ID:                uuid.New(),
		CaseID:            caseID,
		ExecutiveSummary:  PolicyViolationMessage,
		Options:           placeholderOptions(),
		RecommendedAction: types.RecommendedAction{Option: 0, Steps: []string{}},
		ReflectionPrompts: []string{},
		Sources:           []types.SourceCitation{},
		Confidence:        0.0,
		ScholarFlag:       false,
		PolicyViolation:   true,
		CreatedAt:         time.Now().UTC(),
	}
}

// fallbackOutput is the generic payload for failed runs.
func (r *Runner) fallbackOutput(caseID uuid.UUID) *types.Output {
	return &types.Output{
		ID:                uuid.New(),
		CaseID:            caseID,
		ExecutiveSummary:  FallbackMessage,
		Options:           placeholderOptions(),
		RecommendedAction: types.RecommendedAction{Option: 0, Steps: []string{}},
		ReflectionPrompts: []string{},
		Sources:           []types.SourceCitation{},
		Confidence:        0.0,
		ScholarFlag:       true,
		PolicyViolation:   false,
		CreatedAt:         time.Now().UTC(),
	}
}

func placeholderOptions() []types.Option {
	opts := make([]types.Option, types.RequiredOptionCount)
	for i := range opts {
		opts[i] = types.Option{
			Title:   "Not available",
			Pros:    []string{},
			Cons:    []string{},
			Sources: []string{},
		}
	}
	return opts
}
