// Package filter canonicalizes message text and matches it against a
// banned-term list. Matching is substring-based over normalized text:
// a banned term inside a larger token still matches.
package filter

import (
	"regexp"
	"strings"
)

// strippableChars matches every rune that is neither a letter, a digit,
// whitespace, nor inside the Arabic Unicode block.
var strippableChars = regexp.MustCompile(`[^\pL\pN\s\x{0600}-\x{06FF}]+`)

// Normalize canonicalizes text for matching: symbols and punctuation are
// removed, whitespace runs collapse to a single space, and the result is
// trimmed and lower-cased. Normalize is pure and idempotent.
func Normalize(text string) string {
	stripped := strippableChars.ReplaceAllString(text, "")
	collapsed := strings.Join(strings.Fields(stripped), " ")
	return strings.ToLower(collapsed)
}
