package types

// ViolationType classifies a blocklist match. Logged as metadata only,
// never alongside the triggering text.
type ViolationType string

// Blocklist violation categories. Classification is categorical:
// the first matching category wins.
const (
	ViolationExplicitSexual   ViolationType = "explicit_sexual"
	ViolationExplicitViolence ViolationType = "explicit_violence"
	ViolationSpamGibberish    ViolationType = "spam_gibberish"
)

// ModerationResult is the outcome of a blocklist check.
type ModerationResult struct {
	Blocked   bool          `json:"blocked"`
	Violation ViolationType `json:"violation_type,omitempty"`
}
