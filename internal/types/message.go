package types

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole identifies the author of a conversation turn.
type MessageRole string

// Message roles.
const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one turn in a case's conversation, ordered by creation time.
type Message struct {
	ID        uuid.UUID   `json:"id"`
	CaseID    uuid.UUID   `json:"case_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}
