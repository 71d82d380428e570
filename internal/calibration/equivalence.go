// Copyright 2025 James Ross
package calibration

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ProjectTypeEquivalenceClasses groups project types that share risk
// patterns closely enough to be treated as interchangeable for
// similarity retrieval.
var ProjectTypeEquivalenceClasses = [][]string{
	{"construction", "infrastructure"},
	{"software", "research"},
	{"manufacturing", "industrial"},
	{"energy", "utilities"},
}

// SameEquivalenceClass reports whether a and b are the same project
// type, fall in the same equivalence class, or, when neither holds,
// fuzzy-match: one string's characters appear in order within the
// other (fuzzy.Match, tried in both directions).
func SameEquivalenceClass(a, b string) bool {
	a, b = normalizeType(a), normalizeType(b)
	if a == b {
		return true
	}

	for _, class := range ProjectTypeEquivalenceClasses {
		if containsType(class, a) && containsType(class, b) {
			return true
		}
	}

	return fuzzy.Match(a, b) || fuzzy.Match(b, a)
}

func normalizeType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsType(class []string, t string) bool {
	for _, c := range class {
		if c == t {
			return true
		}
	}
	return false
}
