package actions

import (
	"context"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

// CreateTransaction records a manual entry. Category rules fill the category
// when none is given.
type CreateTransaction struct {
	Create ledger.TransactionCreate

	Created *ledger.Transaction
}

var _ IAction = (*CreateTransaction)(nil)

func (t *CreateTransaction) Perform(ctx context.Context, store ledger.Store) error {
	created, err := editor.CreateTransaction(ctx, store, t.Create)
	if err != nil {
		return err
	}

	t.Created = created
	return nil
}

// CreateTransfer records both legs of a transfer between two own accounts.
type CreateTransfer struct {
	Request ledger.TransferRequest

	Source *ledger.Transaction
	Target *ledger.Transaction
}

var _ IAction = (*CreateTransfer)(nil)

func (t *CreateTransfer) Perform(ctx context.Context, store ledger.Store) error {
	source, target, err := editor.CreateTransfer(ctx, store, t.Request)
	if err != nil {
		return err
	}

	t.Source = source
	t.Target = target
	return nil
}
