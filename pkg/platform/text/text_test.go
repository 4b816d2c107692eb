package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapitalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "lowercase word",
			input:    "whiskers",
			expected: "Whiskers",
		},
		{
			name:     "already capitalized",
			input:    "Whiskers",
			expected: "Whiskers",
		},
		{
			name:     "single rune",
			input:    "a",
			expected: "A",
		},
		{
			name:     "multi-byte first rune",
			input:    "ñata",
			expected: "Ñata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Capitalize(tt.input))
		})
	}
}

func TestTrimAndCapitalize(t *testing.T) {
	assert.Equal(t, "Whiskers", TrimAndCapitalize("  whiskers  "))
	assert.Equal(t, "", TrimAndCapitalize("   "))
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"foo", "bar", "foo", "baz", "bar"},
			expected: []string{"foo", "bar", "baz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Dedupe(tt.input))
		})
	}
}
