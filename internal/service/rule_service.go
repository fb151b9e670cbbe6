package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/operator/actions"
	"github.com/carson-networks/finances-tracker/internal/rules"
)

// RuleService manages categories and keyword rules. Account-rule changes
// invalidate the account-rule cache once committed.
type RuleService struct {
	operator processor
	cache    *rules.AccountRuleCache
}

func NewRuleService(op processor, cache *rules.AccountRuleCache) *RuleService {
	return &RuleService{operator: op, cache: cache}
}

func (s *RuleService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

func (s *RuleService) CreateAccountRule(ctx context.Context, keyword string, accountID uuid.UUID) (uuid.UUID, error) {
	action := &actions.CreateAccountRule{Rule: ledger.AccountRule{
		Keyword:   keyword,
		AccountID: accountID,
		IsActive:  true,
	}}
	if err := s.operator.Process(ctx, action); err != nil {
		return uuid.Nil, err
	}
	s.invalidate()
	return action.ID, nil
}

func (s *RuleService) SetAccountRuleActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.operator.Process(ctx, &actions.SetAccountRuleActive{ID: id, Active: active}); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *RuleService) DeleteAccountRule(ctx context.Context, id uuid.UUID) error {
	if err := s.operator.Process(ctx, &actions.DeleteAccountRule{ID: id}); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// CreateCategoryRule adds an active rule. subcategoryID must belong to
// categoryID.
func (s *RuleService) CreateCategoryRule(ctx context.Context, keyword string, categoryID, subcategoryID uuid.UUID) (uuid.UUID, error) {
	action := &actions.CreateCategoryRule{Rule: ledger.CategoryRule{
		Keyword:       keyword,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		IsActive:      true,
	}}
	if err := s.operator.Process(ctx, action); err != nil {
		return uuid.Nil, err
	}
	return action.ID, nil
}

func (s *RuleService) CreateCategory(ctx context.Context, name string) (uuid.UUID, error) {
	action := &actions.CreateCategory{Name: name}
	if err := s.operator.Process(ctx, action); err != nil {
		return uuid.Nil, err
	}
	return action.ID, nil
}

func (s *RuleService) CreateSubcategory(ctx context.Context, categoryID uuid.UUID, name string) (uuid.UUID, error) {
	action := &actions.CreateSubcategory{CategoryID: categoryID, Name: name}
	if err := s.operator.Process(ctx, action); err != nil {
		return uuid.Nil, err
	}
	return action.ID, nil
}
