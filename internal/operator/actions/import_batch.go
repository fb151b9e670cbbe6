package actions

import (
	"context"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/reconcile"
)

// ImportBatch imports one statement. A technical failure on any row rolls
// back the whole batch; rejected rows only produce warnings.
type ImportBatch struct {
	Importer *reconcile.Importer
	Rows     []ledger.RawTransaction
	BankTag  string

	Result *ledger.ImportResult
}

var _ IAction = (*ImportBatch)(nil)

func (b *ImportBatch) Perform(ctx context.Context, store ledger.Store) error {
	result, err := b.Importer.Import(ctx, store, b.Rows, b.BankTag)
	if err != nil {
		return err
	}

	b.Result = result
	return nil
}
