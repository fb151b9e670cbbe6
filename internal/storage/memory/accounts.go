package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

type accountStore store

func (s accountStore) FindByID(_ context.Context, id uuid.UUID) (*ledger.Account, error) {
	row, ok := s.state().accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, ledger.ErrNotFound)
	}
	a := row.account
	return &a, nil
}

// FindByName returns the earliest created account with exactly this name.
func (s accountStore) FindByName(_ context.Context, name string) (*ledger.Account, error) {
	var found *accountRow
	for _, row := range s.state().accounts {
		if row.account.Name != name {
			continue
		}
		if found == nil || row.seq < found.seq {
			r := row
			found = &r
		}
	}
	if found == nil {
		return nil, fmt.Errorf("account %q: %w", name, ledger.ErrNotFound)
	}
	a := found.account
	return &a, nil
}

func (s accountStore) Insert(_ context.Context, create *ledger.AccountCreate) (*ledger.Account, error) {
	if err := s.writable(); err != nil {
		return nil, err
	}
	st := s.state()
	a := ledger.Account{
		ID:               newID(),
		Name:             create.Name,
		Type:             create.Type,
		BankName:         create.BankName,
		ImportIdentifier: create.ImportIdentifier,
		Currency:         create.Currency,
		InitialBalance:   ledger.RoundAmount(create.InitialBalance),
		IsActive:         true,
		CreatedAt:        s.now(),
	}
	st.accounts[a.ID] = accountRow{seq: st.next(), account: a}
	return &a, nil
}

func (s accountStore) List(_ context.Context, filter *ledger.AccountFilter) ([]*ledger.Account, error) {
	if filter == nil {
		filter = &ledger.AccountFilter{}
	}
	rows := make([]accountRow, 0, len(s.state().accounts))
	for _, row := range s.state().accounts {
		if filter.OnlyActive && !row.account.IsActive {
			continue
		}
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b accountRow) int {
		return cmp.Or(cmp.Compare(a.account.Name, b.account.Name), cmp.Compare(a.seq, b.seq))
	})
	rows = page(rows, filter.Offset, filter.Limit)

	out := make([]*ledger.Account, len(rows))
	for i := range rows {
		a := rows[i].account
		out[i] = &a
	}
	return out, nil
}

func (s accountStore) ImportIdentifiers(context.Context) ([]string, error) {
	var ids []string
	for _, row := range s.state().accounts {
		if row.account.ImportIdentifier != "" {
			ids = append(ids, row.account.ImportIdentifier)
		}
	}
	slices.Sort(ids)
	return ids, nil
}
