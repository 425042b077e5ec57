package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCaseStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   CaseStatus
		terminal bool
	}{
		{StatusDraft, false},
		{StatusPending, false},
		{StatusProcessing, false},
		{StatusCompleted, true},
		{StatusFailed, true},
		{StatusPolicyViolation, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.terminal, tt.status.IsTerminal(), string(tt.status))
	}
}

func TestCaseStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    CaseStatus
		to      CaseStatus
		allowed bool
	}{
		{name: "draft submits", from: StatusDraft, to: StatusPending, allowed: true},
		{name: "draft blocked", from: StatusDraft, to: StatusPolicyViolation, allowed: true},
		{name: "draft cannot complete", from: StatusDraft, to: StatusCompleted, allowed: false},
		{name: "pending claimed", from: StatusPending, to: StatusProcessing, allowed: true},
		{name: "pending cannot skip to completed", from: StatusPending, to: StatusCompleted, allowed: false},
		{name: "processing completes", from: StatusProcessing, to: StatusCompleted, allowed: true},
		{name: "processing fails", from: StatusProcessing, to: StatusFailed, allowed: true},
		{name: "processing refused", from: StatusProcessing, to: StatusPolicyViolation, allowed: true},
		{name: "failed retried", from: StatusFailed, to: StatusPending, allowed: true},
		{name: "failed cannot jump to processing", from: StatusFailed, to: StatusProcessing, allowed: false},
		{name: "completed is final", from: StatusCompleted, to: StatusPending, allowed: false},
		{name: "policy violation is final", from: StatusPolicyViolation, to: StatusPending, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestCase_ValidateOwner(t *testing.T) {
	userID := uuid.New()
	sessionID := "session-1"
	empty := ""

	tests := []struct {
		name    string
		c       Case
		wantErr bool
	}{
		{name: "user only", c: Case{UserID: &userID}},
		{name: "session only", c: Case{SessionID: &sessionID}},
		{name: "neither", c: Case{}, wantErr: true},
		{name: "both", c: Case{UserID: &userID, SessionID: &sessionID}, wantErr: true},
		{name: "empty session counts as unset", c: Case{SessionID: &empty}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.ValidateOwner()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanonicalID(t *testing.T) {
	assert.Equal(t, "2_47", CanonicalID(2, 47))
	assert.Equal(t, "18_66", CanonicalID(18, 66))
}
