// Package text provides small text and slice utilities shared across modules.
package text

import (
	"strings"
	"unicode"
)

// Capitalize upper-cases the first rune of s. Empty input is returned as is.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// TrimAndCapitalize trims surrounding whitespace and capitalizes the first
// rune. Names and descriptions are normalized this way before validation so
// stored values have a single canonical form.
func TrimAndCapitalize(s string) string {
	return Capitalize(strings.TrimSpace(s))
}

// Dedupe removes duplicate elements from a slice. Order is preserved.
//
// Example:
//
//	Dedupe([]int{1, 2, 1, 3})
//	// Returns: []int{1, 2, 3}
func Dedupe[T comparable](values []T) []T {
	if len(values) == 0 {
		return values
	}

	seen := make(map[T]struct{}, len(values))
	result := make([]T, 0, len(values))

	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}

	return result
}
