package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/rules"
)

type transactionStore store

func (s transactionStore) FindByID(_ context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	row, ok := s.state().transactions[id]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", id, ledger.ErrNotFound)
	}
	t := row.tx
	return &t, nil
}

func (s transactionStore) Exists(_ context.Context, key ledger.DuplicateKey) (bool, error) {
	return s.findByKey(key, uuid.Nil), nil
}

func (s transactionStore) findByKey(key ledger.DuplicateKey, except uuid.UUID) bool {
	date := ledger.DateOnly(key.Date)
	amount := ledger.RoundAmount(key.Amount)
	for id, row := range s.state().transactions {
		if id == except {
			continue
		}
		t := row.tx
		if t.AccountID == key.AccountID && t.Description == key.Description &&
			t.Date.Equal(date) && t.Amount.Equal(amount) {
			return true
		}
	}
	return false
}

func (s transactionStore) checkReferences(t *ledger.Transaction) error {
	st := s.state()
	if _, ok := st.accounts[t.AccountID]; !ok {
		return fmt.Errorf("account %s: %w", t.AccountID, ledger.ErrNotFound)
	}
	if t.CategoryID.Valid {
		if _, ok := st.categories[t.CategoryID.UUID]; !ok {
			return fmt.Errorf("category %s: %w", t.CategoryID.UUID, ledger.ErrNotFound)
		}
	}
	if t.SubcategoryID.Valid {
		if _, ok := st.subcategories[t.SubcategoryID.UUID]; !ok {
			return fmt.Errorf("subcategory %s: %w", t.SubcategoryID.UUID, ledger.ErrNotFound)
		}
	}
	if s.findByKey(t.Key(), t.ID) {
		return fmt.Errorf("transaction %q on %s: %w", t.Description, t.Date.Format("2006-01-02"), ledger.ErrConflict)
	}
	return nil
}

func (s transactionStore) Insert(_ context.Context, create *ledger.TransactionCreate) (*ledger.Transaction, error) {
	if err := s.writable(); err != nil {
		return nil, err
	}
	t := ledger.NewTransaction(newID(), create, s.now())
	if err := s.checkReferences(&t); err != nil {
		return nil, err
	}
	st := s.state()
	st.transactions[t.ID] = transactionRow{seq: st.next(), tx: t}
	return &t, nil
}

func (s transactionStore) Update(_ context.Context, t *ledger.Transaction) error {
	if err := s.writable(); err != nil {
		return err
	}
	st := s.state()
	row, ok := st.transactions[t.ID]
	if !ok {
		return fmt.Errorf("transaction %s: %w", t.ID, ledger.ErrNotFound)
	}

	updated := *t
	updated.SetDate(t.Date)
	updated.Amount = ledger.RoundAmount(t.Amount)
	updated.RelatedTransactionID = row.tx.RelatedTransactionID
	updated.CreatedAt = row.tx.CreatedAt
	now := s.now()
	updated.UpdatedAt = &now
	if err := s.checkReferences(&updated); err != nil {
		return err
	}

	row.tx = updated
	st.transactions[t.ID] = row
	*t = updated
	return nil
}

func (s transactionStore) Link(_ context.Context, a, b uuid.UUID) error {
	if err := s.writable(); err != nil {
		return err
	}
	if a == b {
		return fmt.Errorf("link %s to itself: %w", a, ledger.ErrConflict)
	}
	st := s.state()
	rowA, ok := st.transactions[a]
	if !ok {
		return fmt.Errorf("transaction %s: %w", a, ledger.ErrNotFound)
	}
	rowB, ok := st.transactions[b]
	if !ok {
		return fmt.Errorf("transaction %s: %w", b, ledger.ErrNotFound)
	}
	if rowA.tx.IsPaired() || rowB.tx.IsPaired() {
		return fmt.Errorf("link %s and %s: %w", a, b, ledger.ErrAlreadyPaired)
	}

	rowA.tx.RelatedTransactionID = uuid.NullUUID{UUID: b, Valid: true}
	rowB.tx.RelatedTransactionID = uuid.NullUUID{UUID: a, Valid: true}
	st.transactions[a] = rowA
	st.transactions[b] = rowB
	return nil
}

// Delete removes every id. Links pointing at a removed row are cleared.
func (s transactionStore) Delete(_ context.Context, ids ...uuid.UUID) error {
	if err := s.writable(); err != nil {
		return err
	}
	st := s.state()
	for _, id := range ids {
		if _, ok := st.transactions[id]; !ok {
			return fmt.Errorf("transaction %s: %w", id, ledger.ErrNotFound)
		}
	}
	for _, id := range ids {
		delete(st.transactions, id)
	}
	for id, row := range st.transactions {
		if row.tx.RelatedTransactionID.Valid && slices.Contains(ids, row.tx.RelatedTransactionID.UUID) {
			row.tx.RelatedTransactionID = uuid.NullUUID{}
			st.transactions[id] = row
		}
	}
	return nil
}

func (s transactionStore) ListUnpairedTransfers(_ context.Context, q *ledger.UnpairedQuery) ([]*ledger.Transaction, error) {
	from := ledger.DateOnly(q.From)
	to := ledger.DateOnly(q.To)
	amount := ledger.RoundAmount(q.Amount)

	var rows []transactionRow
	for _, row := range s.state().transactions {
		t := row.tx
		if !t.IsTransfer || t.IsPaired() || t.AccountID == q.ExcludeAccountID {
			continue
		}
		if !t.Amount.Equal(amount) || t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		if slices.Contains(q.ExcludeIDs, t.ID) {
			continue
		}
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b transactionRow) int {
		return cmp.Or(a.tx.Date.Compare(b.tx.Date), cmp.Compare(a.seq, b.seq))
	})
	return toTransactions(rows), nil
}

// List returns matching rows, newest date first.
func (s transactionStore) List(_ context.Context, filter *ledger.TransactionFilter) ([]*ledger.Transaction, error) {
	if filter == nil {
		filter = &ledger.TransactionFilter{}
	}
	var rows []transactionRow
	for _, row := range s.state().transactions {
		if matchesFilter(&row.tx, filter) {
			rows = append(rows, row)
		}
	}
	slices.SortFunc(rows, func(a, b transactionRow) int {
		return cmp.Or(b.tx.Date.Compare(a.tx.Date), cmp.Compare(b.seq, a.seq))
	})
	return toTransactions(page(rows, filter.Offset, filter.Limit)), nil
}

func matchesFilter(t *ledger.Transaction, f *ledger.TransactionFilter) bool {
	switch {
	case f.Year != nil && t.Year != *f.Year:
		return false
	case f.Month != nil && t.MonthNumber != *f.Month:
		return false
	case f.AccountID != nil && t.AccountID != *f.AccountID:
		return false
	case f.CategoryID != nil && (!t.CategoryID.Valid || t.CategoryID.UUID != *f.CategoryID):
		return false
	case f.HasNoCategory && t.CategoryID.Valid:
		return false
	case f.HideTransfers && t.IsTransfer:
		return false
	case f.IsInsignificant != nil && t.IsInsignificant != *f.IsInsignificant:
		return false
	case f.IsInsignificant == nil && !f.IncludeInsignificant && t.IsInsignificant:
		return false
	case f.MinAmount != nil && t.Amount.LessThan(*f.MinAmount):
		return false
	case f.MaxAmount != nil && t.Amount.GreaterThan(*f.MaxAmount):
		return false
	case f.SearchTerm != "" && !rules.ContainsFold(t.Description, f.SearchTerm):
		return false
	}
	return true
}

func toTransactions(rows []transactionRow) []*ledger.Transaction {
	out := make([]*ledger.Transaction, len(rows))
	for i := range rows {
		t := rows[i].tx
		out[i] = &t
	}
	return out
}
