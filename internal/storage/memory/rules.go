package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

type ruleStore store

func (s ruleStore) ActiveCategoryRules(context.Context) ([]ledger.CategoryRule, error) {
	var out []ledger.CategoryRule
	for _, r := range s.state().categoryRules {
		if r.IsActive {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b ledger.CategoryRule) int {
		return cmp.Or(cmp.Compare(a.Keyword, b.Keyword), a.CreatedAt.Compare(b.CreatedAt))
	})
	return out, nil
}

func (s ruleStore) ActiveAccountRules(context.Context) ([]ledger.AccountRule, error) {
	var out []ledger.AccountRule
	for _, r := range s.state().accountRules {
		if r.IsActive {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b ledger.AccountRule) int {
		return cmp.Compare(a.Keyword, b.Keyword)
	})
	return out, nil
}

func (s ruleStore) InsertCategoryRule(_ context.Context, rule *ledger.CategoryRule) (uuid.UUID, error) {
	if err := s.writable(); err != nil {
		return uuid.Nil, err
	}
	if strings.TrimSpace(rule.Keyword) == "" {
		return uuid.Nil, ledger.ErrEmptyKeyword
	}
	st := s.state()
	sub, ok := st.subcategories[rule.SubcategoryID]
	if !ok {
		return uuid.Nil, fmt.Errorf("subcategory %s: %w", rule.SubcategoryID, ledger.ErrNotFound)
	}
	if sub.CategoryID != rule.CategoryID {
		return uuid.Nil, ledger.ErrSubcategoryMismatch
	}

	r := *rule
	r.ID = newID()
	r.CreatedAt = s.now()
	st.categoryRules[r.ID] = r
	return r.ID, nil
}

func (s ruleStore) InsertAccountRule(_ context.Context, rule *ledger.AccountRule) (uuid.UUID, error) {
	if err := s.writable(); err != nil {
		return uuid.Nil, err
	}
	if strings.TrimSpace(rule.Keyword) == "" {
		return uuid.Nil, ledger.ErrEmptyKeyword
	}
	st := s.state()
	if _, ok := st.accounts[rule.AccountID]; !ok {
		return uuid.Nil, fmt.Errorf("account %s: %w", rule.AccountID, ledger.ErrNotFound)
	}
	lower := strings.ToLower(rule.Keyword)
	for _, existing := range st.accountRules {
		if strings.ToLower(existing.Keyword) == lower {
			return uuid.Nil, fmt.Errorf("account rule %q: %w", rule.Keyword, ledger.ErrConflict)
		}
	}

	r := *rule
	r.ID = newID()
	r.CreatedAt = s.now()
	st.accountRules[r.ID] = r
	return r.ID, nil
}

func (s ruleStore) SetAccountRuleActive(_ context.Context, id uuid.UUID, active bool) error {
	if err := s.writable(); err != nil {
		return err
	}
	st := s.state()
	r, ok := st.accountRules[id]
	if !ok {
		return fmt.Errorf("account rule %s: %w", id, ledger.ErrNotFound)
	}
	r.IsActive = active
	st.accountRules[id] = r
	return nil
}

func (s ruleStore) DeleteAccountRule(_ context.Context, id uuid.UUID) error {
	if err := s.writable(); err != nil {
		return err
	}
	st := s.state()
	if _, ok := st.accountRules[id]; !ok {
		return fmt.Errorf("account rule %s: %w", id, ledger.ErrNotFound)
	}
	delete(st.accountRules, id)
	return nil
}

type categoryStore store

func (s categoryStore) InsertCategory(_ context.Context, name string) (uuid.UUID, error) {
	if err := s.writable(); err != nil {
		return uuid.Nil, err
	}
	st := s.state()
	for _, c := range st.categories {
		if c.Name == name {
			return uuid.Nil, fmt.Errorf("category %q: %w", name, ledger.ErrConflict)
		}
	}
	c := ledger.Category{ID: newID(), Name: name}
	st.categories[c.ID] = c
	return c.ID, nil
}

func (s categoryStore) InsertSubcategory(_ context.Context, categoryID uuid.UUID, name string) (uuid.UUID, error) {
	if err := s.writable(); err != nil {
		return uuid.Nil, err
	}
	st := s.state()
	if _, ok := st.categories[categoryID]; !ok {
		return uuid.Nil, fmt.Errorf("category %s: %w", categoryID, ledger.ErrNotFound)
	}
	sub := ledger.Subcategory{ID: newID(), CategoryID: categoryID, Name: name}
	st.subcategories[sub.ID] = sub
	return sub.ID, nil
}

func (s categoryStore) FindSubcategory(_ context.Context, id uuid.UUID) (*ledger.Subcategory, error) {
	sub, ok := s.state().subcategories[id]
	if !ok {
		return nil, fmt.Errorf("subcategory %s: %w", id, ledger.ErrNotFound)
	}
	return &sub, nil
}

func (s categoryStore) ListCategories(context.Context) ([]ledger.Category, error) {
	out := make([]ledger.Category, 0, len(s.state().categories))
	for _, c := range s.state().categories {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b ledger.Category) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}
