package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vnykmshr/geetanjali/internal/types"
)

// CreateUser registers a user by email. Email uniqueness is enforced by
// the database.
func (db *DB) CreateUser(ctx context.Context, u *types.User) (*types.User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, name)
		 VALUES ($1, $2, $3)
		 RETURNING id, email, name, created_at`,
		u.ID, u.Email, u.Name,
	)

	var created types.User
	if err := row.Scan(&created.ID, &created.Email, &created.Name, &created.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &created, nil
}

// GetUser retrieves a user by id. Returns nil when not found.
func (db *DB) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, email, name, created_at FROM users WHERE id = $1`, userID)

	var u types.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// UpdateUser updates a user's mutable profile fields.
func (db *DB) UpdateUser(ctx context.Context, u *types.User) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET email = $1, name = $2 WHERE id = $3`,
		u.Email, u.Name, u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", u.ID)
	}
	return nil
}

// DeleteUser deletes a user and their cases (via cascade).
func (db *DB) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// AdoptSessionCases reassigns all of a session's anonymous cases to a
// registered user. Returns how many cases were adopted.
func (db *DB) AdoptSessionCases(ctx context.Context, sessionID string, userID uuid.UUID) (int, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE cases SET user_id = $1, session_id = NULL, updated_at = NOW()
		 WHERE session_id = $2`,
		userID, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to adopt session cases: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
