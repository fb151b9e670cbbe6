package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

// PairingWindow is the largest date distance between two legs of a transfer.
const PairingWindow = 3 * 24 * time.Hour

// IsPairCandidate reports whether a and b can be the two legs of one
// transfer: both unpaired transfers on different accounts with opposite
// amounts no more than PairingWindow apart.
func IsPairCandidate(a, b *ledger.Transaction) bool {
	if a.ID == b.ID || !a.IsTransfer || !b.IsTransfer || a.IsPaired() || b.IsPaired() {
		return false
	}
	if a.AccountID == b.AccountID || !a.Amount.Equal(b.Amount.Neg()) {
		return false
	}
	gap := ledger.DateOnly(a.Date).Sub(ledger.DateOnly(b.Date))
	if gap < 0 {
		gap = -gap
	}
	return gap <= PairingWindow
}

// Pairer links transfer legs one-to-one.
type Pairer struct{}

// Pair links the transfer rows of batch, in submission order. Each row is
// matched first against the other rows of the batch and then against unpaired
// transfers already in storage. The first match wins and both rows leave the
// pool. Unmatched rows stay orphans. It returns the number of pairs made.
func (Pairer) Pair(ctx context.Context, txs ledger.ITransactionStore, batch []*ledger.Transaction) (int, error) {
	var (
		pool     []*ledger.Transaction
		batchIDs []uuid.UUID
	)
	for _, t := range batch {
		if t.IsTransfer && !t.IsPaired() {
			pool = append(pool, t)
			batchIDs = append(batchIDs, t.ID)
		}
	}

	paired := make(map[uuid.UUID]bool, len(pool))
	pairs := 0
	for _, a := range pool {
		if paired[a.ID] {
			continue
		}

		match := firstInBatch(a, pool, paired)
		if match == nil {
			stored, err := txs.ListUnpairedTransfers(ctx, &ledger.UnpairedQuery{
				Amount:           a.Amount.Neg(),
				ExcludeAccountID: a.AccountID,
				From:             a.Date.Add(-PairingWindow),
				To:               a.Date.Add(PairingWindow),
				ExcludeIDs:       batchIDs,
			})
			if err != nil {
				return pairs, fmt.Errorf("listing unpaired transfers: %w", err)
			}
			for _, candidate := range stored {
				if IsPairCandidate(a, candidate) {
					match = candidate
					break
				}
			}
		}
		if match == nil {
			continue
		}

		if err := txs.Link(ctx, a.ID, match.ID); err != nil {
			return pairs, fmt.Errorf("linking %s and %s: %w", a.ID, match.ID, err)
		}
		paired[a.ID] = true
		paired[match.ID] = true
		setLink(a, match.ID)
		setLink(match, a.ID)
		pairs++
	}
	return pairs, nil
}

func firstInBatch(a *ledger.Transaction, pool []*ledger.Transaction, paired map[uuid.UUID]bool) *ledger.Transaction {
	for _, b := range pool {
		if paired[b.ID] {
			continue
		}
		if IsPairCandidate(a, b) {
			return b
		}
	}
	return nil
}

func setLink(t *ledger.Transaction, sibling uuid.UUID) {
	t.RelatedTransactionID = uuid.NullUUID{UUID: sibling, Valid: true}
}
