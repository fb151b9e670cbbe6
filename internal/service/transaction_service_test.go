package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aarondl/opt/omit"
	"github.com/davecgh/go-spew/spew"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/operator/actions"
	"github.com/carson-networks/finances-tracker/internal/storage/memory"
)

const mbankStatement = "#Data operacji;#Opis operacji;#Rachunek;#Kategoria;#Kwota;\n" +
	`2024-01-31;"gopass.travel";"Bieżące";"Podróże";-25,00 PLN;` + "\n" +
	`2024-01-30;"Korekta opłaty";"Bieżące";"Opłaty";-5,00 PLN;` + "\n" +
	`not-a-date;"Broken";"Bieżące";"Inne";-1,00 PLN;` + "\n"

// -- Import tests --

func TestImportStatement_Success(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Transaction.ImportStatement(context.Background(), strings.NewReader(mbankStatement), "MBank")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported, spew.Sdump(result))
	assert.Equal(t, 1, result.Insignificant)
	assert.Equal(t, []string{"Bieżące"}, result.AccountsCreated)

	txs, _, err := f.svc.Transaction.ListTransactions(context.Background(), ledger.TransactionFilter{IncludeInsignificant: true}, nil)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "mbank", txs[0].BankName)
}

func TestImportStatement_Reimport(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Transaction.ImportStatement(context.Background(), strings.NewReader(mbankStatement), "mbank")
	require.NoError(t, err)

	result, err := f.svc.Transaction.ImportStatement(context.Background(), strings.NewReader(mbankStatement), "mbank")

	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 2, result.Duplicates)
	assert.Len(t, result.Warnings, 2)
}

func TestImportStatement_UnknownFormat(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Transaction.ImportStatement(context.Background(), strings.NewReader(""), "ing")

	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestImport_ProcessError(t *testing.T) {
	op := new(mockProcessor)
	svc := NewTransactionService(memory.New(), op, nil, nil)
	op.On("Process", mock.Anything, mock.AnythingOfType("*actions.ImportBatch")).
		Return(errors.New("connection refused"))

	result, err := svc.Import(context.Background(), []ledger.RawTransaction{{Description: "x"}}, "mbank")

	assert.EqualError(t, err, "connection refused")
	assert.Nil(t, result)
	op.AssertExpectations(t)
}

// -- CreateTransfer tests --

func TestCreateTransfer_Success(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "A", "0")
	b := f.account(t, "B", "0")

	source, target, err := f.svc.Transaction.CreateTransfer(context.Background(), ledger.TransferRequest{
		SourceAccountID: a.ID,
		TargetAccountID: b.ID,
		Amount:          decimal.RequireFromString("-200"),
		Date:            day(2024, 3, 1),
	})

	require.NoError(t, err)
	assert.Equal(t, "-200.00", source.Amount.StringFixed(2))
	assert.Equal(t, "200.00", target.Amount.StringFixed(2))
	assert.Equal(t, target.ID, source.RelatedTransactionID.UUID)
	assert.Equal(t, source.ID, target.RelatedTransactionID.UUID)
}

func TestCreateTransfer_SameAccount(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "A", "0")

	_, _, err := f.svc.Transaction.CreateTransfer(context.Background(), ledger.TransferRequest{
		SourceAccountID: a.ID,
		TargetAccountID: a.ID,
		Amount:          decimal.NewFromInt(5),
		Date:            day(2024, 3, 1),
	})

	assert.ErrorIs(t, err, ledger.ErrSameAccount)
}

// -- Update / Delete tests --

func TestUpdateTransaction_MirrorsSibling(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "A", "0")
	b := f.account(t, "B", "0")
	source, target, err := f.svc.Transaction.CreateTransfer(context.Background(), ledger.TransferRequest{
		SourceAccountID: a.ID, TargetAccountID: b.ID, Amount: decimal.NewFromInt(50), Date: day(2024, 3, 1),
	})
	require.NoError(t, err)

	updated, err := f.svc.Transaction.UpdateTransaction(context.Background(), source.ID, ledger.TransactionPatch{
		Amount: omit.From(decimal.NewFromInt(-70)),
		Date:   omit.From(day(2024, 4, 2)),
	})

	require.NoError(t, err)
	assert.Equal(t, 4, updated.MonthNumber)

	sibling, err := f.db.Read().Transactions().FindByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, "70.00", sibling.Amount.StringFixed(2))
	assert.True(t, sibling.Date.Equal(day(2024, 4, 2)))
}

func TestDeleteTransaction_RemovesPair(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "A", "0")
	b := f.account(t, "B", "0")
	source, target, err := f.svc.Transaction.CreateTransfer(context.Background(), ledger.TransferRequest{
		SourceAccountID: a.ID, TargetAccountID: b.ID, Amount: decimal.NewFromInt(50), Date: day(2024, 3, 1),
	})
	require.NoError(t, err)

	deleted, err := f.svc.Transaction.DeleteTransaction(context.Background(), target.ID)

	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{source.ID, target.ID}, deleted)
	_, err = f.db.Read().Transactions().FindByID(context.Background(), source.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestToggleInsignificant(t *testing.T) {
	f := newFixture(t)
	acc := f.account(t, "A", "0")
	tx := f.transaction(t, ledger.TransactionCreate{
		Date: day(2024, 1, 1), Description: "Kawa", Amount: decimal.NewFromInt(-12), AccountID: acc.ID,
	})

	toggled, err := f.svc.Transaction.ToggleInsignificant(context.Background(), tx.ID)

	require.NoError(t, err)
	assert.True(t, toggled.IsInsignificant)
}

// -- ListTransactions tests --

func TestListTransactions_Paging(t *testing.T) {
	f := newFixture(t)
	acc := f.account(t, "A", "0")
	for i := 1; i <= 3; i++ {
		f.transaction(t, ledger.TransactionCreate{
			Date: day(2024, 1, i), Description: "Zakup", Amount: decimal.NewFromInt(int64(-i)), AccountID: acc.ID,
		})
	}

	page, next, err := f.svc.Transaction.ListTransactions(context.Background(), ledger.TransactionFilter{}, &TransactionCursor{Limit: 2})

	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, page[0].Date.Equal(day(2024, 1, 3)))
	require.NotNil(t, next)
	assert.Equal(t, 2, next.Position)

	page, next, err = f.svc.Transaction.ListTransactions(context.Background(), ledger.TransactionFilter{}, next)

	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Nil(t, next)
}

func TestListTransactions_NoResults(t *testing.T) {
	f := newFixture(t)

	page, next, err := f.svc.Transaction.ListTransactions(context.Background(), ledger.TransactionFilter{}, nil)

	assert.NoError(t, err)
	assert.Nil(t, page)
	assert.Nil(t, next)
}

// -- Summary tests --

func TestSummary_GroupsByCategory(t *testing.T) {
	f := newFixture(t)
	acc := f.account(t, "A", "0")
	food, err := f.svc.Rule.CreateCategory(context.Background(), "Jedzenie")
	require.NoError(t, err)

	create := func(desc, amount string, month int, category uuid.UUID, insignificant bool) {
		f.transaction(t, ledger.TransactionCreate{
			Date:            day(2024, timeMonth(month), 10),
			Description:     desc,
			Amount:          decimal.RequireFromString(amount),
			AccountID:       acc.ID,
			CategoryID:      uuid.NullUUID{UUID: category, Valid: category != uuid.Nil},
			IsInsignificant: insignificant,
		})
	}
	create("Biedronka", "-40", 5, food, false)
	create("Zwrot Biedronka", "5", 5, food, false)
	create("Pensja", "3000", 5, uuid.Nil, false)
	create("Opłata", "-2", 5, uuid.Nil, true)
	create("Lidl", "-10", 6, food, false)

	may := 5
	summary, err := f.svc.Transaction.Summary(context.Background(), SummaryQuery{Year: 2024, Month: &may})

	require.NoError(t, err)
	assert.Equal(t, "3005.00", summary.TotalIncome.StringFixed(2))
	assert.Equal(t, "40.00", summary.TotalExpenses.StringFixed(2))
	assert.Equal(t, "2965.00", summary.Balance.StringFixed(2))
	require.Len(t, summary.Categories, 2, spew.Sdump(summary.Categories))
	assert.Equal(t, "Jedzenie", summary.Categories[0].CategoryName)
	assert.Equal(t, "-35.00", summary.Categories[0].Total.StringFixed(2))
	assert.Equal(t, UncategorizedName, summary.Categories[1].CategoryName)

	summary, err = f.svc.Transaction.Summary(context.Background(), SummaryQuery{Year: 2024, Month: &may, IncludeInsignificant: true})

	require.NoError(t, err)
	assert.Equal(t, "42.00", summary.TotalExpenses.StringFixed(2))
}

func TestCreateTransaction_ProcessError(t *testing.T) {
	op := new(mockProcessor)
	svc := NewTransactionService(memory.New(), op, nil, nil)
	op.On("Process", mock.Anything, mock.MatchedBy(func(a *actions.CreateTransaction) bool {
		return a.Create.Description == "Test"
	})).Return(ledger.ErrNotFound)

	tx, err := svc.CreateTransaction(context.Background(), ledger.TransactionCreate{Description: "Test"})

	assert.ErrorIs(t, err, ledger.ErrNotFound)
	assert.Nil(t, tx)
	op.AssertExpectations(t)
}
