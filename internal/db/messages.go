package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vnykmshr/geetanjali/internal/types"
)

// CreateMessage appends a conversation turn to a case.
func (db *DB) CreateMessage(ctx context.Context, m *types.Message) (*types.Message, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO messages (id, case_id, role, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, case_id, role, content, created_at`,
		m.ID, m.CaseID, m.Role, m.Content,
	)

	var created types.Message
	err := row.Scan(&created.ID, &created.CaseID, &created.Role, &created.Content, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &created, nil
}

// ListMessages returns a case's conversation in creation order.
func (db *DB) ListMessages(ctx context.Context, caseID uuid.UUID) ([]types.Message, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, case_id, role, content, created_at
		 FROM messages WHERE case_id = $1
		 ORDER BY created_at ASC`, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []types.Message
	for rows.Next() {
		var m types.Message
		if err := rows.Scan(&m.ID, &m.CaseID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}
