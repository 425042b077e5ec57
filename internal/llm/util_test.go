package llm

import (
	"testing"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  {\"key\": \"value\"}\n",
			expected: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple object",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "nested objects",
			input:    `{"outer": {"inner": "value"}}`,
			expected: `{"outer": {"inner": "value"}}`,
		},
		{
			name:     "leading prose",
			input:    "Here is the guidance you asked for:\n{\"confidence\": 0.8}",
			expected: `{"confidence": 0.8}`,
		},
		{
			name:     "trailing prose",
			input:    `{"key": "value"} Let me know if you need more.`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "braces inside string",
			input:    `{"template": "use {placeholders} carefully"}`,
			expected: `{"template": "use {placeholders} carefully"}`,
		},
		{
			name:     "escaped quotes",
			input:    `{"summary": "He said \"act without attachment\""}`,
			expected: `{"summary": "He said \"act without attachment\""}`,
		},
		{
			name:     "unterminated object",
			input:    `{"key": "value"`,
			expected: "",
		},
		{
			name:     "no object",
			input:    "I can't assist with that request.",
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractJSONObject(tt.input)
			if result != tt.expected {
				t.Errorf("ExtractJSONObject() = %q, want %q", result, tt.expected)
			}
		})
	}
}
