// Package types provides type definitions for structured data used throughout the Geetanjali system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CaseStatus represents the lifecycle state of a case.
type CaseStatus string

// Case lifecycle states. Terminal states are Completed, Failed, and PolicyViolation.
const (
	StatusDraft           CaseStatus = "draft"
	StatusPending         CaseStatus = "pending"
	StatusProcessing      CaseStatus = "processing"
	StatusCompleted       CaseStatus = "completed"
	StatusFailed          CaseStatus = "failed"
	StatusPolicyViolation CaseStatus = "policy_violation"
)

// IsTerminal reports whether the status is a terminal pipeline state.
// Failed is terminal for the pipeline but retryable by the user.
func (s CaseStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusPolicyViolation
}

// CanTransition reports whether a status transition is allowed by the
// case state machine.
func (s CaseStatus) CanTransition(to CaseStatus) bool {
	if s.IsTerminal() {
		// User-initiated retry is the only way out of a terminal state.
		return s == StatusFailed && to == StatusPending
	}
	switch s {
	case StatusDraft:
		return to == StatusPending || to == StatusPolicyViolation
	case StatusPending:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed || to == StatusPolicyViolation
	default:
		return false
	}
}

// ShareMode controls how a publicly shared case is rendered.
type ShareMode string

// Share modes for public case links.
const (
	ShareModeFull    ShareMode = "full"
	ShareModeSummary ShareMode = "summary"
)

// Case represents a user's submitted ethical dilemma.
type Case struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Role         string     `json:"role,omitempty"`
	Stakeholders []string   `json:"stakeholders,omitempty"`
	Horizon      string     `json:"horizon,omitempty"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	SessionID    *string    `json:"session_id,omitempty"`
	Status       CaseStatus `json:"status"`
	IsPublic     bool       `json:"is_public"`
	ShareSlug    *string    `json:"share_slug,omitempty"`
	ShareMode    ShareMode  `json:"share_mode,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ValidateOwner enforces the ownership invariant: exactly one of
// UserID or SessionID must be set.
func (c *Case) ValidateOwner() error {
	hasUser := c.UserID != nil && *c.UserID != uuid.Nil
	hasSession := c.SessionID != nil && *c.SessionID != ""
	if hasUser == hasSession {
		return fmt.Errorf("case must have exactly one owner: user_id or session_id")
	}
	return nil
}
