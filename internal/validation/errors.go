// Package validation parses and repairs the LLM's JSON payload into a
// well-formed Output, enforcing the structural invariants the rest of
// the system relies on.
package validation

import "fmt"

// ParseError indicates the LLM response could not be parsed as JSON
// even after the repair pass. The pipeline treats this like a provider
// failure and falls back to a generic Output.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("output parse failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("output parse failed: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
