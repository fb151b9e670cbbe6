package rules

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of s used for all keyword matching.
func Fold(s string) string {
	// Casers carry state, so each call gets its own.
	return cases.Fold().String(s)
}

// ContainsFold reports whether needle occurs in haystack ignoring case.
// An empty or blank needle never matches.
func ContainsFold(haystack, needle string) bool {
	if strings.TrimSpace(needle) == "" {
		return false
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}

// KeywordSet is a pre-folded list of keywords matched by substring.
type KeywordSet struct {
	folded []string
}

// NewKeywordSet folds keywords once, dropping blank entries.
func NewKeywordSet(keywords ...string) KeywordSet {
	folded := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if strings.TrimSpace(k) == "" {
			continue
		}
		folded = append(folded, Fold(k))
	}
	return KeywordSet{folded: folded}
}

// Len returns the number of usable keywords.
func (s KeywordSet) Len() int {
	return len(s.folded)
}

// MatchFolded reports whether any keyword occurs in an already folded text.
func (s KeywordSet) MatchFolded(foldedText string) bool {
	for _, k := range s.folded {
		if strings.Contains(foldedText, k) {
			return true
		}
	}
	return false
}

// Match reports whether any keyword occurs in text ignoring case.
func (s KeywordSet) Match(text string) bool {
	return s.MatchFolded(Fold(text))
}
