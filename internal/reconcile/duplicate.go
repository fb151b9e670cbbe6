package reconcile

import (
	"context"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

// DuplicateFilter reports rows already present in storage under the same
// description, date, amount and account.
type DuplicateFilter struct{}

// IsDuplicate checks key against persisted rows, including rows written
// earlier in the same unit of work.
func (DuplicateFilter) IsDuplicate(ctx context.Context, txs ledger.ITransactionStore, key ledger.DuplicateKey) (bool, error) {
	key.Date = ledger.DateOnly(key.Date)
	key.Amount = ledger.RoundAmount(key.Amount)
	return txs.Exists(ctx, key)
}
