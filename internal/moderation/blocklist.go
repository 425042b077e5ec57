// Package moderation provides the two content-moderation layers: a
// pre-submission regex blocklist and a post-generation refusal detector.
package moderation

import (
	"log"
	"regexp"

	"github.com/vnykmshr/geetanjali/internal/types"
)

// BlockedMessage is the fixed educational message returned to callers
// whose input matched the blocklist. The triggering text is never
// echoed back or logged.
const BlockedMessage = "Your submission could not be accepted. Geetanjali offers guidance on " +
	"ethical dilemmas and cannot engage with explicit or abusive content. " +
	"Please rephrase your situation and try again."

// patternGroup ties one violation category to its patterns. Groups are
// evaluated in order; the first group with any match classifies the input.
// checks hold matchers that RE2 cannot express (it has no backreferences).
type patternGroup struct {
	violation types.ViolationType
	patterns  []*regexp.Regexp
	checks    []func(string) bool
}

// Word-boundary anchoring keeps partial words from matching
// ("classic" must not trip a "class"-prefixed pattern).
var defaultGroups = []patternGroup{
	{
		violation: types.ViolationExplicitSexual,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(porn|pornograph\w*)\b`),
			regexp.MustCompile(`(?i)\bsexual(ly)?\s+(explicit|abus\w+|assault\w*)\b`),
			regexp.MustCompile(`(?i)\b(nude|naked)\s+(photo|picture|image)s?\b`),
		},
	},
	{
		violation: types.ViolationExplicitViolence,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(kill|murder|slaughter)\s+(you|him|her|them|everyone|myself)\b`),
			regexp.MustCompile(`(?i)\bfuck\w*\b`),
			regexp.MustCompile(`(?i)\b(you|u)\s+(are|r)\s+an?\s+(idiot|moron|worthless)\b`),
			regexp.MustCompile(`(?i)\bhow\s+to\s+(hurt|harm|torture)\b`),
		},
	},
	{
		violation: types.ViolationSpamGibberish,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(viagra|casino\s+bonus|crypto\s+giveaway)\b`),
			regexp.MustCompile(`(?i)\bbuy\s+now\b.*\bhttps?://`),
		},
		checks: []func(string) bool{hasRepeatedRun},
	},
}

// repeatRunLimit is the repeated-rune count that classifies input as gibberish.
const repeatRunLimit = 12

// hasRepeatedRun reports whether the same rune occurs repeatRunLimit or
// more times in a row.
func hasRepeatedRun(text string) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= repeatRunLimit {
			return true
		}
	}
	return false
}

// Blocklist classifies raw user text against ordered pattern groups.
type Blocklist struct {
	groups  []patternGroup
	enabled bool
}

// NewBlocklist builds the default blocklist. The filter is a no-op when
// enabled is false (master content-filter switch off, or the blocklist
// layer independently disabled).
func NewBlocklist(enabled bool) *Blocklist {
	return &Blocklist{groups: defaultGroups, enabled: enabled}
}

// Check classifies text. First matching group wins; categories are not
// cumulative. On a match it logs the violation type only.
func (b *Blocklist) Check(text string) types.ModerationResult {
	if !b.enabled {
		return types.ModerationResult{}
	}
	for _, group := range b.groups {
		for _, pattern := range group.patterns {
			if pattern.MatchString(text) {
				log.Printf("[moderation] blocklist match: violation_type=%s", group.violation)
				return types.ModerationResult{Blocked: true, Violation: group.violation}
			}
		}
		for _, check := range group.checks {
			if check(text) {
				log.Printf("[moderation] blocklist match: violation_type=%s", group.violation)
				return types.ModerationResult{Blocked: true, Violation: group.violation}
			}
		}
	}
	return types.ModerationResult{}
}
