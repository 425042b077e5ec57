package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vnykmshr/geetanjali/internal/types"
)

// CreateOutput persists a pipeline output. The structured fields
// (options, recommendation, prompts, sources) are stored as JSONB so
// the output row mirrors the API payload exactly.
func (db *DB) CreateOutput(ctx context.Context, out *types.Output) error {
	if out.ID == uuid.Nil {
		out.ID = uuid.New()
	}

	options, err := json.Marshal(out.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}
	action, err := json.Marshal(out.RecommendedAction)
	if err != nil {
		return fmt.Errorf("failed to marshal recommended action: %w", err)
	}
	prompts, err := json.Marshal(out.ReflectionPrompts)
	if err != nil {
		return fmt.Errorf("failed to marshal reflection prompts: %w", err)
	}
	sources, err := json.Marshal(out.Sources)
	if err != nil {
		return fmt.Errorf("failed to marshal sources: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO outputs (id, case_id, executive_summary, options, recommended_action,
		                      reflection_prompts, sources, confidence, scholar_flag, policy_violation)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		out.ID, out.CaseID, out.ExecutiveSummary, options, action,
		prompts, sources, out.Confidence, out.ScholarFlag, out.PolicyViolation,
	)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	return nil
}

// GetOutputByCase returns the most recent output for a case, or nil
// when the case has not produced one yet.
func (db *DB) GetOutputByCase(ctx context.Context, caseID uuid.UUID) (*types.Output, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, case_id, executive_summary, options, recommended_action,
		        reflection_prompts, sources, confidence, scholar_flag, policy_violation, created_at
		 FROM outputs WHERE case_id = $1
		 ORDER BY created_at DESC LIMIT 1`, caseID)

	var out types.Output
	var options, action, prompts, sources []byte
	err := row.Scan(&out.ID, &out.CaseID, &out.ExecutiveSummary, &options, &action,
		&prompts, &sources, &out.Confidence, &out.ScholarFlag, &out.PolicyViolation, &out.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get output: %w", err)
	}

	if err := json.Unmarshal(options, &out.Options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	if err := json.Unmarshal(action, &out.RecommendedAction); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommended action: %w", err)
	}
	if err := json.Unmarshal(prompts, &out.ReflectionPrompts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reflection prompts: %w", err)
	}
	if err := json.Unmarshal(sources, &out.Sources); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sources: %w", err)
	}
	return &out, nil
}
