package rules

import (
	"cmp"
	"slices"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

// CategoryMatcher assigns a category and subcategory from a description.
//
// The first active rule in keyword-ascending order whose keyword occurs in
// the description wins. Ties are broken alphabetically, not by keyword
// length.
type CategoryMatcher struct {
	rules []ledger.CategoryRule
}

// NewCategoryMatcher snapshots the given rules. Inactive and blank-keyword
// rules are ignored.
func NewCategoryMatcher(rules []ledger.CategoryRule) *CategoryMatcher {
	active := make([]ledger.CategoryRule, 0, len(rules))
	for _, r := range rules {
		if !r.IsActive || strings.TrimSpace(r.Keyword) == "" {
			continue
		}
		active = append(active, r)
	}
	slices.SortStableFunc(active, func(a, b ledger.CategoryRule) int {
		return cmp.Compare(a.Keyword, b.Keyword)
	})
	return &CategoryMatcher{rules: active}
}

// Match returns the category and subcategory of the first matching rule, or
// two invalid ids when nothing matches.
func (m *CategoryMatcher) Match(description string) (uuid.NullUUID, uuid.NullUUID) {
	if m == nil {
		return uuid.NullUUID{}, uuid.NullUUID{}
	}
	for _, r := range m.rules {
		if ContainsFold(description, r.Keyword) {
			return uuid.NullUUID{UUID: r.CategoryID, Valid: true},
				uuid.NullUUID{UUID: r.SubcategoryID, Valid: true}
		}
	}
	return uuid.NullUUID{}, uuid.NullUUID{}
}
