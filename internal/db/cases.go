package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vnykmshr/geetanjali/internal/types"
)

const caseColumns = `id, title, description, role, stakeholders, horizon, user_id, session_id,
	status, is_public, share_slug, share_mode, created_at, updated_at`

func scanCase(row pgx.Row) (*types.Case, error) {
	var c types.Case
	var shareMode *string
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Role, &c.Stakeholders, &c.Horizon,
		&c.UserID, &c.SessionID, &c.Status, &c.IsPublic, &c.ShareSlug, &shareMode,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if shareMode != nil {
		c.ShareMode = types.ShareMode(*shareMode)
	}
	return &c, nil
}

// CreateCase inserts a new case and returns it with generated fields.
// The ownership invariant (exactly one of user_id/session_id) must hold
// before calling; it is also enforced by a CHECK constraint.
func (db *DB) CreateCase(ctx context.Context, c *types.Case) (*types.Case, error) {
	if err := c.ValidateOwner(); err != nil {
		return nil, err
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO cases (id, title, description, role, stakeholders, horizon, user_id, session_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+caseColumns,
		c.ID, c.Title, c.Description, c.Role, c.Stakeholders, c.Horizon, c.UserID, c.SessionID, c.Status,
	)
	created, err := scanCase(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}
	return created, nil
}

// GetCase retrieves a case by id. Returns nil when not found.
func (db *DB) GetCase(ctx context.Context, caseID uuid.UUID) (*types.Case, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = $1`, caseID)
	c, err := scanCase(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return c, nil
}

// GetCaseBySlug retrieves a publicly shared case by its share slug.
func (db *DB) GetCaseBySlug(ctx context.Context, slug string) (*types.Case, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+caseColumns+` FROM cases WHERE share_slug = $1 AND is_public = TRUE`, slug)
	c, err := scanCase(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shared case: %w", err)
	}
	return c, nil
}

// CaseFilters holds optional filters for listing cases.
type CaseFilters struct {
	UserID    uuid.UUID
	SessionID string
	Status    types.CaseStatus
	Limit     int
}

// ListCases retrieves cases with optional filters, newest first.
func (db *DB) ListCases(ctx context.Context, filters CaseFilters) ([]types.Case, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT ` + caseColumns + ` FROM cases WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.UserID != uuid.Nil {
		query += fmt.Sprintf(" AND user_id = $%d", argNum)
		args = append(args, filters.UserID)
		argNum++
	}
	if filters.SessionID != "" {
		query += fmt.Sprintf(" AND session_id = $%d", argNum)
		args = append(args, filters.SessionID)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []types.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, *c)
	}
	return cases, nil
}

// SetCaseStatus updates a case's status unconditionally.
func (db *DB) SetCaseStatus(ctx context.Context, caseID uuid.UUID, status types.CaseStatus) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE cases SET status = $1, updated_at = NOW() WHERE id = $2`, status, caseID)
	if err != nil {
		return fmt.Errorf("failed to set case status: %w", err)
	}
	return nil
}

// TransitionCaseStatus performs a compare-and-set status update.
// Returns false when the case was not in the expected status, which is
// how concurrent workers lose the claim race without double-processing.
func (db *DB) TransitionCaseStatus(ctx context.Context, caseID uuid.UUID, from, to types.CaseStatus) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE cases SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		to, caseID, from)
	if err != nil {
		return false, fmt.Errorf("failed to transition case status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ClaimPendingCases atomically moves up to limit pending cases to
// processing and returns them, oldest first.
func (db *DB) ClaimPendingCases(ctx context.Context, limit int) ([]types.Case, error) {
	rows, err := db.pool.Query(ctx,
		`UPDATE cases SET status = $1, updated_at = NOW()
		 WHERE id IN (
		     SELECT id FROM cases WHERE status = $2
		     ORDER BY created_at ASC
		     FOR UPDATE SKIP LOCKED
		     LIMIT $3
		 )
		 RETURNING `+caseColumns,
		types.StatusProcessing, types.StatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending cases: %w", err)
	}
	defer rows.Close()

	var cases []types.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claimed case: %w", err)
		}
		cases = append(cases, *c)
	}
	return cases, nil
}

// ShareCase marks a case public under the given slug and mode.
func (db *DB) ShareCase(ctx context.Context, caseID uuid.UUID, slug string, mode types.ShareMode) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE cases SET is_public = TRUE, share_slug = $1, share_mode = $2, updated_at = NOW()
		 WHERE id = $3`,
		slug, string(mode), caseID)
	if err != nil {
		return fmt.Errorf("failed to share case: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("case not found: %s", caseID)
	}
	return nil
}

// DeleteCase deletes a case and its messages/outputs (via cascade).
func (db *DB) DeleteCase(ctx context.Context, caseID uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM cases WHERE id = $1`, caseID)
	if err != nil {
		return fmt.Errorf("failed to delete case: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("case not found: %s", caseID)
	}
	return nil
}
