package moderation

import "regexp"

// Refusal phrasings observed across providers. Matched against raw LLM
// output before any JSON parsing is attempted: refusals are prose, so
// parsing them would fail with a misleading error. Contractions accept
// both the ASCII apostrophe and U+2019, which some providers emit.
var refusalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bI\s+(can['’]t|cannot|won['’]t|will\s+not)\s+(assist|help|engage)\b`),
	regexp.MustCompile(`(?i)\bI\s+must\s+decline\b`),
	regexp.MustCompile(`(?i)\bI\s+apologize,?\s+but\s+I\s+(can['’]t|cannot)\b`),
	regexp.MustCompile(`(?i)\bI['’]m\s+(unable|not\s+able)\s+to\s+(assist|help)\s+with\s+(that|this)\b`),
	regexp.MustCompile(`(?i)\bthis\s+request\s+appears\s+to\s+contain\b`),
	regexp.MustCompile(`(?i)\bI\s+(can['’]t|cannot)\s+provide\s+guidance\s+on\b`),
}

// RefusalDetector flags provider-side safety refusals in LLM output.
type RefusalDetector struct {
	enabled bool
}

// NewRefusalDetector builds a detector. Disabled detectors never flag.
func NewRefusalDetector(enabled bool) *RefusalDetector {
	return &RefusalDetector{enabled: enabled}
}

// Detect reports whether the text matches a known refusal phrasing.
func (d *RefusalDetector) Detect(text string) bool {
	if !d.enabled {
		return false
	}
	for _, pattern := range refusalPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
