package memory

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

func seedAccount(t *testing.T, db *Database, name string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	uow, err := db.Write(ctx)
	require.NoError(t, err)
	a, err := uow.Accounts().Insert(ctx, &ledger.AccountCreate{Name: name, Currency: "PLN"})
	require.NoError(t, err)
	require.NoError(t, uow.Commit(ctx))
	return a.ID
}

func transfer(account uuid.UUID, amount string, date time.Time) *ledger.TransactionCreate {
	return &ledger.TransactionCreate{
		Date:        date,
		Description: "PRZELEW WŁASNY",
		Amount:      decimal.RequireFromString(amount),
		AccountID:   account,
		IsTransfer:  true,
	}
}

// -- unit of work tests --

func TestDatabase_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	db := New()

	uow, err := db.Write(ctx)
	require.NoError(t, err)
	_, err = uow.Accounts().Insert(ctx, &ledger.AccountCreate{Name: "Bieżące", Currency: "PLN"})
	require.NoError(t, err)

	inside, err := uow.Accounts().List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, inside, 1)
	outside, err := db.Read().Accounts().List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, outside)

	require.NoError(t, uow.Rollback(ctx))
	after, err := db.Read().Accounts().List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestDatabase_CommitPublishesWrites(t *testing.T) {
	db := New()
	id := seedAccount(t, db, "Bieżące")

	a, err := db.Read().Accounts().FindByName(context.Background(), "Bieżące")

	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.True(t, a.IsActive)
}

func TestDatabase_FinishedUnitRejectsWrites(t *testing.T) {
	ctx := context.Background()
	db := New()
	uow, err := db.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Commit(ctx))

	_, err = uow.Accounts().Insert(ctx, &ledger.AccountCreate{Name: "x"})
	assert.ErrorIs(t, err, ErrDone)
	assert.ErrorIs(t, uow.Commit(ctx), ErrDone)
	assert.NoError(t, uow.Rollback(ctx))
}

func TestDatabase_ReadStoreIsReadOnly(t *testing.T) {
	_, err := New().Read().Accounts().Insert(context.Background(), &ledger.AccountCreate{Name: "x"})

	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestDatabase_WriteWaitsForOpenUnit(t *testing.T) {
	db := New()
	uow, err := db.Write(context.Background())
	require.NoError(t, err)
	defer uow.Rollback(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = db.Write(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// -- transaction constraint tests --

func TestTransactions_DuplicateKeyConflicts(t *testing.T) {
	ctx := context.Background()
	db := New()
	account := seedAccount(t, db, "Bieżące")
	day := time.Date(2024, 1, 31, 15, 4, 0, 0, time.UTC)

	uow, err := db.Write(ctx)
	require.NoError(t, err)
	defer uow.Rollback(ctx)

	first, err := uow.Transactions().Insert(ctx, transfer(account, "-25.00", day))
	require.NoError(t, err)
	assert.Equal(t, 1, first.MonthNumber)
	assert.Equal(t, 2024, first.Year)

	exists, err := uow.Transactions().Exists(ctx, first.Key())
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = uow.Transactions().Insert(ctx, transfer(account, "-25", day))
	assert.ErrorIs(t, err, ledger.ErrConflict)
}

func TestTransactions_InsertRequiresAccount(t *testing.T) {
	ctx := context.Background()
	uow, err := New().Write(ctx)
	require.NoError(t, err)
	defer uow.Rollback(ctx)

	_, err = uow.Transactions().Insert(ctx, transfer(uuid.Must(uuid.NewV4()), "1", time.Now()))

	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestTransactions_LinkIsSymmetricAndExclusive(t *testing.T) {
	ctx := context.Background()
	db := New()
	x := seedAccount(t, db, "X")
	y := seedAccount(t, db, "Y")
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	uow, err := db.Write(ctx)
	require.NoError(t, err)
	defer uow.Rollback(ctx)
	txs := uow.Transactions()

	a, err := txs.Insert(ctx, transfer(x, "-100", day))
	require.NoError(t, err)
	b, err := txs.Insert(ctx, transfer(y, "100", day))
	require.NoError(t, err)
	c, err := txs.Insert(ctx, transfer(y, "100", day.AddDate(0, 0, 1)))
	require.NoError(t, err)

	require.NoError(t, txs.Link(ctx, a.ID, b.ID))
	assert.ErrorIs(t, txs.Link(ctx, a.ID, c.ID), ledger.ErrAlreadyPaired)

	gotA, err := txs.FindByID(ctx, a.ID)
	require.NoError(t, err)
	gotB, err := txs.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, gotA.RelatedTransactionID.UUID)
	assert.Equal(t, a.ID, gotB.RelatedTransactionID.UUID)

	require.NoError(t, txs.Delete(ctx, a.ID))
	gotB, err = txs.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, gotB.IsPaired())
}

func TestTransactions_ListUnpairedTransfersOrder(t *testing.T) {
	ctx := context.Background()
	db := New()
	x := seedAccount(t, db, "X")
	y := seedAccount(t, db, "Y")
	base := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	uow, err := db.Write(ctx)
	require.NoError(t, err)
	defer uow.Rollback(ctx)
	txs := uow.Transactions()

	late, err := txs.Insert(ctx, &ledger.TransactionCreate{Date: base.AddDate(0, 0, 2), Description: "b", Amount: decimal.NewFromInt(50), AccountID: y, IsTransfer: true})
	require.NoError(t, err)
	early, err := txs.Insert(ctx, &ledger.TransactionCreate{Date: base.AddDate(0, 0, -1), Description: "a", Amount: decimal.NewFromInt(50), AccountID: y, IsTransfer: true})
	require.NoError(t, err)
	_, err = txs.Insert(ctx, &ledger.TransactionCreate{Date: base, Description: "same account", Amount: decimal.NewFromInt(50), AccountID: x, IsTransfer: true})
	require.NoError(t, err)
	_, err = txs.Insert(ctx, &ledger.TransactionCreate{Date: base, Description: "not a transfer", Amount: decimal.NewFromInt(50), AccountID: y})
	require.NoError(t, err)
	_, err = txs.Insert(ctx, &ledger.TransactionCreate{Date: base.AddDate(0, 0, 5), Description: "too late", Amount: decimal.NewFromInt(50), AccountID: y, IsTransfer: true})
	require.NoError(t, err)

	got, err := txs.ListUnpairedTransfers(ctx, &ledger.UnpairedQuery{
		Amount:           decimal.NewFromInt(50),
		ExcludeAccountID: x,
		From:             base.AddDate(0, 0, -3),
		To:               base.AddDate(0, 0, 3),
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, early.ID, got[0].ID)
	assert.Equal(t, late.ID, got[1].ID)
}

func TestTransactions_ListFilters(t *testing.T) {
	ctx := context.Background()
	db := New()
	account := seedAccount(t, db, "Bieżące")
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	uow, err := db.Write(ctx)
	require.NoError(t, err)
	txs := uow.Transactions()
	_, err = txs.Insert(ctx, &ledger.TransactionCreate{Date: day, Description: "Biedronka", Amount: decimal.NewFromInt(-40), AccountID: account})
	require.NoError(t, err)
	_, err = txs.Insert(ctx, &ledger.TransactionCreate{Date: day, Description: "Korekta", Amount: decimal.NewFromInt(3), AccountID: account, IsInsignificant: true})
	require.NoError(t, err)
	_, err = txs.Insert(ctx, &ledger.TransactionCreate{Date: day.AddDate(0, 1, 0), Description: "Przelew własny", Amount: decimal.NewFromInt(-500), AccountID: account, IsTransfer: true, IsInsignificant: true})
	require.NoError(t, err)
	require.NoError(t, uow.Commit(ctx))

	march := 3
	insignificant := true
	minAmount := decimal.NewFromInt(-100)
	tests := []struct {
		name   string
		filter ledger.TransactionFilter
		want   []string
	}{
		{"default hides insignificant", ledger.TransactionFilter{}, []string{"Biedronka"}},
		{"include insignificant newest first", ledger.TransactionFilter{IncludeInsignificant: true}, []string{"Przelew własny", "Korekta", "Biedronka"}},
		{"only insignificant", ledger.TransactionFilter{IsInsignificant: &insignificant}, []string{"Przelew własny", "Korekta"}},
		{"month", ledger.TransactionFilter{Month: &march, IncludeInsignificant: true}, []string{"Korekta", "Biedronka"}},
		{"hide transfers", ledger.TransactionFilter{HideTransfers: true, IncludeInsignificant: true}, []string{"Korekta", "Biedronka"}},
		{"search ignores case", ledger.TransactionFilter{SearchTerm: "BIEDR"}, []string{"Biedronka"}},
		{"min amount", ledger.TransactionFilter{MinAmount: &minAmount, IncludeInsignificant: true}, []string{"Korekta", "Biedronka"}},
		{"paging", ledger.TransactionFilter{IncludeInsignificant: true, Offset: 1, Limit: 1}, []string{"Korekta"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Read().Transactions().List(ctx, &tt.filter)
			require.NoError(t, err)
			var names []string
			for _, tx := range got {
				names = append(names, tx.Description)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

// -- rule tests --

func TestRules_AccountRuleKeywordUniqueIgnoringCase(t *testing.T) {
	ctx := context.Background()
	db := New()
	account := seedAccount(t, db, "mKonto")

	uow, err := db.Write(ctx)
	require.NoError(t, err)
	defer uow.Rollback(ctx)

	_, err = uow.Rules().InsertAccountRule(ctx, &ledger.AccountRule{Keyword: "mKonto", AccountID: account, IsActive: true})
	require.NoError(t, err)
	_, err = uow.Rules().InsertAccountRule(ctx, &ledger.AccountRule{Keyword: "MKONTO", AccountID: account, IsActive: true})
	assert.ErrorIs(t, err, ledger.ErrConflict)
	_, err = uow.Rules().InsertAccountRule(ctx, &ledger.AccountRule{Keyword: " ", AccountID: account})
	assert.ErrorIs(t, err, ledger.ErrEmptyKeyword)
}

func TestRules_CategoryRuleSubcategoryMustBelongToCategory(t *testing.T) {
	ctx := context.Background()
	uow, err := New().Write(ctx)
	require.NoError(t, err)
	defer uow.Rollback(ctx)
	cats := uow.Categories()

	food, err := cats.InsertCategory(ctx, "Jedzenie")
	require.NoError(t, err)
	travel, err := cats.InsertCategory(ctx, "Podróże")
	require.NoError(t, err)
	groceries, err := cats.InsertSubcategory(ctx, food, "Zakupy")
	require.NoError(t, err)

	_, err = uow.Rules().InsertCategoryRule(ctx, &ledger.CategoryRule{Keyword: "biedronka", CategoryID: travel, SubcategoryID: groceries, IsActive: true})
	assert.ErrorIs(t, err, ledger.ErrSubcategoryMismatch)

	_, err = uow.Rules().InsertCategoryRule(ctx, &ledger.CategoryRule{Keyword: "biedronka", CategoryID: food, SubcategoryID: groceries, IsActive: true})
	require.NoError(t, err)
	active, err := uow.Rules().ActiveCategoryRules(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
