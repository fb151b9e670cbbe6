package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

type CreateAccountRule struct {
	Rule ledger.AccountRule

	ID uuid.UUID
}

var _ IAction = (*CreateAccountRule)(nil)

func (a *CreateAccountRule) Perform(ctx context.Context, store ledger.Store) error {
	if _, err := store.Accounts().FindByID(ctx, a.Rule.AccountID); err != nil {
		return err
	}
	id, err := store.Rules().InsertAccountRule(ctx, &a.Rule)
	if err != nil {
		return err
	}

	a.ID = id
	return nil
}

type SetAccountRuleActive struct {
	ID     uuid.UUID
	Active bool
}

var _ IAction = (*SetAccountRuleActive)(nil)

func (a *SetAccountRuleActive) Perform(ctx context.Context, store ledger.Store) error {
	return store.Rules().SetAccountRuleActive(ctx, a.ID, a.Active)
}

type DeleteAccountRule struct {
	ID uuid.UUID
}

var _ IAction = (*DeleteAccountRule)(nil)

func (a *DeleteAccountRule) Perform(ctx context.Context, store ledger.Store) error {
	return store.Rules().DeleteAccountRule(ctx, a.ID)
}

type CreateCategoryRule struct {
	Rule ledger.CategoryRule

	ID uuid.UUID
}

var _ IAction = (*CreateCategoryRule)(nil)

func (a *CreateCategoryRule) Perform(ctx context.Context, store ledger.Store) error {
	id, err := store.Rules().InsertCategoryRule(ctx, &a.Rule)
	if err != nil {
		return err
	}

	a.ID = id
	return nil
}

type CreateCategory struct {
	Name string

	ID uuid.UUID
}

var _ IAction = (*CreateCategory)(nil)

func (a *CreateCategory) Perform(ctx context.Context, store ledger.Store) error {
	id, err := store.Categories().InsertCategory(ctx, a.Name)
	if err != nil {
		return err
	}

	a.ID = id
	return nil
}

type CreateSubcategory struct {
	CategoryID uuid.UUID
	Name       string

	ID uuid.UUID
}

var _ IAction = (*CreateSubcategory)(nil)

func (a *CreateSubcategory) Perform(ctx context.Context, store ledger.Store) error {
	id, err := store.Categories().InsertSubcategory(ctx, a.CategoryID, a.Name)
	if err != nil {
		return err
	}

	a.ID = id
	return nil
}
