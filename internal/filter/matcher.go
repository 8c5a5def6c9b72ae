package filter

import "strings"

// Match reports whether text contains any of the given banned terms after
// normalization, returning the first matching term in its original
// (non-normalized) form. Terms that normalize to the empty string never
// match. Any match triggers the same downstream action, so term order only
// affects which literal term string is reported.
func Match(text string, terms []string) (string, bool) {
	normalized := Normalize(text)
	if normalized == "" {
		return "", false
	}

	for _, term := range terms {
		nt := Normalize(term)
		if nt == "" {
			continue
		}
		if strings.Contains(normalized, nt) {
			return term, true
		}
	}

	return "", false
}
