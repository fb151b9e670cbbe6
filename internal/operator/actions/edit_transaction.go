package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

// UpdateTransaction applies a patch, mirroring it onto a paired sibling.
type UpdateTransaction struct {
	ID    uuid.UUID
	Patch ledger.TransactionPatch

	Updated *ledger.Transaction
}

var _ IAction = (*UpdateTransaction)(nil)

func (u *UpdateTransaction) Perform(ctx context.Context, store ledger.Store) error {
	updated, err := editor.UpdateTransaction(ctx, store, u.ID, u.Patch)
	if err != nil {
		return err
	}

	u.Updated = updated
	return nil
}

// DeleteTransaction removes a transaction together with its sibling.
type DeleteTransaction struct {
	ID uuid.UUID

	Deleted []uuid.UUID
}

var _ IAction = (*DeleteTransaction)(nil)

func (d *DeleteTransaction) Perform(ctx context.Context, store ledger.Store) error {
	deleted, err := editor.DeleteTransaction(ctx, store, d.ID)
	if err != nil {
		return err
	}

	d.Deleted = deleted
	return nil
}

type ToggleInsignificant struct {
	ID uuid.UUID

	Updated *ledger.Transaction
}

var _ IAction = (*ToggleInsignificant)(nil)

func (a *ToggleInsignificant) Perform(ctx context.Context, store ledger.Store) error {
	updated, err := editor.ToggleInsignificant(ctx, store, a.ID)
	if err != nil {
		return err
	}

	a.Updated = updated
	return nil
}
