package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/rules"
)

// DefaultTransferDescription is used for transfers created without one.
const DefaultTransferDescription = "Przelew własny"

// Editor performs manual, pair-aware changes to the ledger. A transfer pair
// is always created, edited and deleted as a whole. Every method must run
// inside one unit of work.
type Editor struct{}

// CreateTransfer writes both legs of a transfer and links them. The source
// leg gets the negative amount.
func (Editor) CreateTransfer(ctx context.Context, store ledger.Store, req ledger.TransferRequest) (*ledger.Transaction, *ledger.Transaction, error) {
	if req.SourceAccountID == req.TargetAccountID {
		return nil, nil, ledger.ErrSameAccount
	}
	amount := ledger.RoundAmount(req.Amount).Abs()
	if amount.IsZero() {
		return nil, nil, ledger.ErrInvalidAmount
	}
	for _, id := range []uuid.UUID{req.SourceAccountID, req.TargetAccountID} {
		if _, err := store.Accounts().FindByID(ctx, id); err != nil {
			return nil, nil, err
		}
	}
	description := req.Description
	if strings.TrimSpace(description) == "" {
		description = DefaultTransferDescription
	}

	base := ledger.TransactionCreate{
		Date:            req.Date,
		Description:     description,
		IsTransfer:      true,
		IsInsignificant: true,
	}

	srcCreate := base
	srcCreate.AccountID = req.SourceAccountID
	srcCreate.Amount = amount.Neg()
	source, err := store.Transactions().Insert(ctx, &srcCreate)
	if err != nil {
		return nil, nil, fmt.Errorf("creating source leg: %w", err)
	}

	dstCreate := base
	dstCreate.AccountID = req.TargetAccountID
	dstCreate.Amount = amount
	target, err := store.Transactions().Insert(ctx, &dstCreate)
	if err != nil {
		return nil, nil, fmt.Errorf("creating target leg: %w", err)
	}

	if err := store.Transactions().Link(ctx, source.ID, target.ID); err != nil {
		return nil, nil, err
	}
	setLink(source, target.ID)
	setLink(target, source.ID)
	return source, target, nil
}

// CreateTransaction inserts a manual entry. Without an explicit category the
// category rules are applied to the description.
func (Editor) CreateTransaction(ctx context.Context, store ledger.Store, create ledger.TransactionCreate) (*ledger.Transaction, error) {
	if ledger.RoundAmount(create.Amount).IsZero() {
		return nil, ledger.ErrInvalidAmount
	}
	if _, err := store.Accounts().FindByID(ctx, create.AccountID); err != nil {
		return nil, err
	}
	if !create.CategoryID.Valid && !create.SubcategoryID.Valid {
		categoryRules, err := store.Rules().ActiveCategoryRules(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading category rules: %w", err)
		}
		create.CategoryID, create.SubcategoryID = rules.NewCategoryMatcher(categoryRules).Match(create.Description)
	}
	if err := checkSubcategory(ctx, store, create.CategoryID, create.SubcategoryID); err != nil {
		return nil, err
	}
	return store.Transactions().Insert(ctx, &create)
}

// UpdateTransaction applies patch to the transaction. When it is one leg of a
// pair, the sibling receives the same date and description and the negated
// amount.
func (Editor) UpdateTransaction(ctx context.Context, store ledger.Store, id uuid.UUID, patch ledger.TransactionPatch) (*ledger.Transaction, error) {
	txs := store.Transactions()
	t, err := txs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(t)

	if t.Amount.IsZero() {
		return nil, ledger.ErrInvalidAmount
	}
	if _, ok := patch.AccountID.Get(); ok {
		if _, err := store.Accounts().FindByID(ctx, t.AccountID); err != nil {
			return nil, err
		}
	}
	if err := checkSubcategory(ctx, store, t.CategoryID, t.SubcategoryID); err != nil {
		return nil, err
	}

	var sibling *ledger.Transaction
	if t.IsPaired() {
		sibling, err = txs.FindByID(ctx, t.RelatedTransactionID.UUID)
		if err != nil {
			return nil, fmt.Errorf("loading paired transaction: %w", err)
		}
		if sibling.AccountID == t.AccountID {
			return nil, ledger.ErrSameAccount
		}
		sibling.SetDate(t.Date)
		sibling.Amount = t.Amount.Neg()
		sibling.Description = t.Description
	}

	if err := txs.Update(ctx, t); err != nil {
		return nil, err
	}
	if sibling != nil {
		if err := txs.Update(ctx, sibling); err != nil {
			return nil, fmt.Errorf("updating paired transaction: %w", err)
		}
	}
	return t, nil
}

// DeleteTransaction removes the transaction and, for a pair, its sibling.
// It returns the ids removed.
func (Editor) DeleteTransaction(ctx context.Context, store ledger.Store, id uuid.UUID) ([]uuid.UUID, error) {
	t, err := store.Transactions().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := []uuid.UUID{t.ID}
	if t.IsPaired() {
		ids = append(ids, t.RelatedTransactionID.UUID)
	}
	if err := store.Transactions().Delete(ctx, ids...); err != nil {
		return nil, err
	}
	return ids, nil
}

// ToggleInsignificant flips the IsInsignificant flag of one transaction.
func (Editor) ToggleInsignificant(ctx context.Context, store ledger.Store, id uuid.UUID) (*ledger.Transaction, error) {
	t, err := store.Transactions().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.IsInsignificant = !t.IsInsignificant
	if err := store.Transactions().Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func checkSubcategory(ctx context.Context, store ledger.Store, categoryID, subcategoryID uuid.NullUUID) error {
	if !subcategoryID.Valid {
		return nil
	}
	if !categoryID.Valid {
		return ledger.ErrSubcategoryMismatch
	}
	sub, err := store.Categories().FindSubcategory(ctx, subcategoryID.UUID)
	if err != nil {
		return err
	}
	if sub.CategoryID != categoryID.UUID {
		return ledger.ErrSubcategoryMismatch
	}
	return nil
}
