package actions

import (
	"context"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

type CreateAccount struct {
	Create ledger.AccountCreate

	Created *ledger.Account
}

var _ IAction = (*CreateAccount)(nil)

func (c *CreateAccount) Perform(ctx context.Context, store ledger.Store) error {
	account, err := store.Accounts().Insert(ctx, &c.Create)
	if err != nil {
		return err
	}

	c.Created = account
	return nil
}
