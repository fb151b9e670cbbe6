package reconcile

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finances-tracker/internal/classify"
	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/parser"
	"github.com/carson-networks/finances-tracker/internal/rules"
	"github.com/carson-networks/finances-tracker/internal/storage/memory"
)

type engine struct {
	db       *memory.Database
	importer *Importer
	hook     *test.Hook
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	db := memory.New()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	cache := rules.NewAccountRuleCache(time.Minute, func(ctx context.Context) ([]ledger.AccountRule, error) {
		return db.Read().Rules().ActiveAccountRules(ctx)
	})
	resolver := NewAccountResolver(cache, DefaultAutoAccount())
	return &engine{
		db:       db,
		importer: NewImporter(resolver, classify.DefaultKeywords(), logger),
		hook:     hook,
	}
}

// inUnit runs fn in a unit of work, rolling back on error like the operator.
func (e *engine) inUnit(t *testing.T, fn func(ctx context.Context, store ledger.Store) error) error {
	t.Helper()
	ctx := context.Background()
	uow, err := e.db.Write(ctx)
	require.NoError(t, err)
	if err := fn(ctx, uow); err != nil {
		require.NoError(t, uow.Rollback(ctx))
		return err
	}
	require.NoError(t, uow.Commit(ctx))
	return nil
}

func (e *engine) importRows(t *testing.T, rows []ledger.RawTransaction, bank string) *ledger.ImportResult {
	t.Helper()
	var result *ledger.ImportResult
	err := e.inUnit(t, func(ctx context.Context, store ledger.Store) error {
		var err error
		result, err = e.importer.Import(ctx, store, rows, bank)
		return err
	})
	require.NoError(t, err)
	return result
}

func (e *engine) account(t *testing.T, name string, identifier string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	require.NoError(t, e.inUnit(t, func(ctx context.Context, store ledger.Store) error {
		a, err := store.Accounts().Insert(ctx, &ledger.AccountCreate{Name: name, Currency: "PLN", ImportIdentifier: identifier})
		if err != nil {
			return err
		}
		id = a.ID
		return nil
	}))
	return id
}

func (e *engine) all(t *testing.T) []*ledger.Transaction {
	t.Helper()
	txs, err := e.db.Read().Transactions().List(context.Background(), &ledger.TransactionFilter{IncludeInsignificant: true})
	require.NoError(t, err)
	return txs
}

func (e *engine) find(t *testing.T, id uuid.UUID) *ledger.Transaction {
	t.Helper()
	tx, err := e.db.Read().Transactions().FindByID(context.Background(), id)
	require.NoError(t, err)
	return tx
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func raw(label, description, amount string, day time.Time) ledger.RawTransaction {
	return ledger.RawTransaction{
		Date:         day,
		Description:  description,
		Amount:       decimal.RequireFromString(amount),
		AccountLabel: label,
	}
}

// -- scenario tests --

func TestImport_MBankRowCreatesAccount(t *testing.T) {
	e := newEngine(t)
	input := "#Data operacji;#Opis operacji;#Rachunek;#Kategoria;#Kwota;\n" +
		`2024-01-31;"gopass.travel";"Bieżące";"Podróże";-25,00 PLN;` + "\n"
	rows, err := parser.Collect((&parser.MBankParser{}).Parse(strings.NewReader(input)))
	require.NoError(t, err)

	result := e.importRows(t, rows, "mbank")

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, []string{"Bieżące"}, result.AccountsCreated)
	assert.Empty(t, result.Warnings)

	txs := e.all(t)
	require.Len(t, txs, 1)
	assert.Equal(t, "gopass.travel", txs[0].Description)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("-25.00")))
	assert.Equal(t, "mbank", txs[0].BankName)
	assert.Equal(t, 1, txs[0].MonthNumber)
	assert.Equal(t, 2024, txs[0].Year)

	account, err := e.db.Read().Accounts().FindByName(context.Background(), "Bieżące")
	require.NoError(t, err)
	assert.Equal(t, "PLN", account.Currency)
	assert.Equal(t, "Import Automatyczny", account.BankName)
	assert.True(t, account.InitialBalance.IsZero())
}

func TestImport_MillenniumTransferLegsArePaired(t *testing.T) {
	e := newEngine(t)
	input := "header\n" +
		`"Account X","2024-02-01","2024-02-01","PRZELEW WŁASNY","","","oszczędności","100,00","","0","PLN"` + "\n" +
		`"Account Y","2024-02-02","2024-02-02","PRZELEW WŁASNY","","","oszczędności","","100,00","0","PLN"` + "\n"
	rows, err := parser.Collect((&parser.MillenniumParser{}).Parse(strings.NewReader(input)))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	result := e.importRows(t, rows, "millennium")

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Transfers)
	assert.Equal(t, 1, result.Paired)

	txs := e.all(t)
	require.Len(t, txs, 2)
	a, b := txs[0], txs[1]
	assert.True(t, a.IsTransfer)
	assert.True(t, b.IsTransfer)
	assert.Equal(t, b.ID, a.RelatedTransactionID.UUID)
	assert.Equal(t, a.ID, b.RelatedTransactionID.UUID)
}

func TestImport_SameRowTwiceIsStoredOnce(t *testing.T) {
	e := newEngine(t)
	rows := []ledger.RawTransaction{raw("Bieżące", "Biedronka", "-43.17", date(2024, 1, 29))}

	first := e.importRows(t, rows, "mbank")
	second := e.importRows(t, rows, "mbank")

	assert.Equal(t, 1, first.Imported)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 1, second.Duplicates)
	require.Len(t, second.Warnings, 1)
	assert.Contains(t, second.Warnings[0], "duplicate")
	assert.Len(t, e.all(t), 1)
}

func TestImport_DuplicateWithinOneBatch(t *testing.T) {
	e := newEngine(t)
	row := raw("Bieżące", "Kawa", "-9.00", date(2024, 1, 3))

	result := e.importRows(t, []ledger.RawTransaction{row, row}, "")

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Duplicates)
}

func TestImport_InvoiceMarkerKeepsRowSignificant(t *testing.T) {
	e := newEngine(t)

	result := e.importRows(t, []ledger.RawTransaction{
		raw("Bieżące", "Przelew wewnętrzny FV/2024/01/7", "-300", date(2024, 1, 10)),
		raw("Bieżące", "Przelew wewnętrzny", "-200", date(2024, 1, 10)),
	}, "")

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Insignificant)
	for _, tx := range e.all(t) {
		if strings.Contains(tx.Description, "FV/") {
			assert.False(t, tx.IsInsignificant)
			assert.False(t, tx.IsTransfer)
		} else {
			assert.True(t, tx.IsInsignificant)
			assert.True(t, tx.IsTransfer)
		}
	}
}

func TestImport_OwnAccountIdentifierMarksTransfer(t *testing.T) {
	e := newEngine(t)
	e.account(t, "Oszczędności", "8877")

	e.importRows(t, []ledger.RawTransaction{raw("Bieżące", "Wpłata na 8877", "-50", date(2024, 1, 10))}, "")

	txs := e.all(t)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].IsInsignificant)
	assert.True(t, txs[0].IsTransfer)
}

func TestImport_RejectedRowsDoNotAbortBatch(t *testing.T) {
	e := newEngine(t)
	missing := uuid.Must(uuid.NewV4())
	rows := []ledger.RawTransaction{
		raw("", "no label", "-1", date(2024, 1, 1)),
		{Date: date(2024, 1, 1), Description: "unknown id", Amount: decimal.NewFromInt(-1), AccountID: missing},
		raw("Bieżące", "", "-1", date(2024, 1, 1)),
		raw("Bieżące", "zero", "0", date(2024, 1, 1)),
		raw("Bieżące", "ok", "-1", date(2024, 1, 1)),
	}

	result := e.importRows(t, rows, "")

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 4, result.Rejected)
	require.Len(t, result.Warnings, 4)
	assert.Equal(t, "row 1: cannot resolve account: no account label given", result.Warnings[0])
	assert.Contains(t, result.Warnings[1], missing.String())
	assert.Len(t, e.all(t), 1)
}

func TestImport_FlaggedRowIsRejectedBeforeAccountResolution(t *testing.T) {
	e := newEngine(t)
	flagged := raw("Nowe konto", "Lidl", "-10", date(2024, 1, 1))
	flagged.Rejection = `invalid accountID "not-a-uuid"`

	result := e.importRows(t, []ledger.RawTransaction{flagged}, "")

	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Rejected)
	assert.Empty(t, result.AccountsCreated)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, `row 1: invalid accountID "not-a-uuid"`, result.Warnings[0])
	assert.Empty(t, e.all(t))
}

func TestImport_ExplicitAccountIDWins(t *testing.T) {
	e := newEngine(t)
	id := e.account(t, "Karta", "")

	result := e.importRows(t, []ledger.RawTransaction{
		{Date: date(2024, 1, 2), Description: "Orlen", Amount: decimal.NewFromInt(-200), AccountLabel: "Bieżące", AccountID: id},
	}, "")

	assert.Empty(t, result.AccountsCreated)
	txs := e.all(t)
	require.Len(t, txs, 1)
	assert.Equal(t, id, txs[0].AccountID)
}

func TestImport_AccountRuleMatchesLabel(t *testing.T) {
	e := newEngine(t)
	id := e.account(t, "Konto główne", "")
	require.NoError(t, e.inUnit(t, func(ctx context.Context, store ledger.Store) error {
		_, err := store.Rules().InsertAccountRule(ctx, &ledger.AccountRule{Keyword: "mkonto", AccountID: id, IsActive: true})
		return err
	}))

	result := e.importRows(t, []ledger.RawTransaction{raw("mKonto Intensive 1234", "Lidl", "-12", date(2024, 1, 2))}, "")

	assert.Empty(t, result.AccountsCreated)
	assert.Equal(t, id, e.all(t)[0].AccountID)
}

func TestImport_CategoryRuleApplied(t *testing.T) {
	e := newEngine(t)
	var food, groceries uuid.UUID
	require.NoError(t, e.inUnit(t, func(ctx context.Context, store ledger.Store) error {
		var err error
		if food, err = store.Categories().InsertCategory(ctx, "Jedzenie"); err != nil {
			return err
		}
		if groceries, err = store.Categories().InsertSubcategory(ctx, food, "Zakupy"); err != nil {
			return err
		}
		_, err = store.Rules().InsertCategoryRule(ctx, &ledger.CategoryRule{Keyword: "biedronka", CategoryID: food, SubcategoryID: groceries, IsActive: true})
		return err
	}))

	e.importRows(t, []ledger.RawTransaction{raw("Bieżące", "BIEDRONKA 123 Kraków", "-20", date(2024, 1, 2))}, "")

	tx := e.all(t)[0]
	assert.Equal(t, food, tx.CategoryID.UUID)
	assert.Equal(t, groceries, tx.SubcategoryID.UUID)
}

// -- pairing tests --

func TestImport_PairsWithStoredOrphan(t *testing.T) {
	e := newEngine(t)

	first := e.importRows(t, []ledger.RawTransaction{raw("X", "Przelew własny", "-250", date(2024, 3, 1))}, "")
	assert.Equal(t, 0, first.Paired)
	orphan := e.all(t)[0]
	assert.False(t, orphan.IsPaired())

	second := e.importRows(t, []ledger.RawTransaction{raw("Y", "Przelew własny", "250", date(2024, 3, 4))}, "")

	assert.Equal(t, 1, second.Paired)
	orphan = e.find(t, orphan.ID)
	require.True(t, orphan.IsPaired())
	sibling := e.find(t, orphan.RelatedTransactionID.UUID)
	assert.Equal(t, orphan.ID, sibling.RelatedTransactionID.UUID)
}

func TestImport_PairingIsOneToOneInSubmissionOrder(t *testing.T) {
	e := newEngine(t)

	result := e.importRows(t, []ledger.RawTransaction{
		raw("X", "Transfer 1", "-100", date(2024, 3, 1)),
		raw("Y", "Transfer 2", "100", date(2024, 3, 2)),
		raw("Z", "Transfer 3", "100", date(2024, 3, 1)),
	}, "")

	assert.Equal(t, 1, result.Paired)
	byDesc := map[string]*ledger.Transaction{}
	for _, tx := range e.all(t) {
		byDesc[tx.Description] = tx
	}
	assert.Equal(t, byDesc["Transfer 2"].ID, byDesc["Transfer 1"].RelatedTransactionID.UUID)
	assert.False(t, byDesc["Transfer 3"].IsPaired())
}

func TestImport_PairingWindowAndAccountRules(t *testing.T) {
	e := newEngine(t)

	result := e.importRows(t, []ledger.RawTransaction{
		raw("X", "Transfer a", "-100", date(2024, 3, 1)),
		raw("Y", "Transfer b", "100", date(2024, 3, 5)),
		raw("X", "Transfer c", "100", date(2024, 3, 1)),
		raw("Y", "Transfer d", "-99", date(2024, 3, 1)),
	}, "")

	assert.Equal(t, 4, result.Transfers)
	assert.Equal(t, 0, result.Paired)
}

func TestIsPairCandidate_ThreeDaysIsInclusive(t *testing.T) {
	x, y := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	a := &ledger.Transaction{ID: uuid.Must(uuid.NewV4()), AccountID: x, Amount: decimal.NewFromInt(-10), Date: date(2024, 1, 1), IsTransfer: true}
	b := &ledger.Transaction{ID: uuid.Must(uuid.NewV4()), AccountID: y, Amount: decimal.NewFromInt(10), Date: date(2024, 1, 4), IsTransfer: true}

	assert.True(t, IsPairCandidate(a, b))
	assert.True(t, IsPairCandidate(b, a))

	b.Date = date(2024, 1, 5)
	assert.False(t, IsPairCandidate(a, b))
}

// -- failure tests --

type failingStore struct {
	ledger.Store
	txs *failingTransactions
}

func (s failingStore) Transactions() ledger.ITransactionStore { return s.txs }

type failingTransactions struct {
	ledger.ITransactionStore
	insertsLeft int
}

func (f *failingTransactions) Insert(ctx context.Context, create *ledger.TransactionCreate) (*ledger.Transaction, error) {
	if f.insertsLeft == 0 {
		return nil, errors.New("connection reset by peer")
	}
	f.insertsLeft--
	return f.ITransactionStore.Insert(ctx, create)
}

func TestImport_TechnicalFailureRollsBackWholeBatch(t *testing.T) {
	e := newEngine(t)

	err := e.inUnit(t, func(ctx context.Context, store ledger.Store) error {
		wrapped := failingStore{Store: store, txs: &failingTransactions{ITransactionStore: store.Transactions(), insertsLeft: 1}}
		_, err := e.importer.Import(ctx, wrapped, []ledger.RawTransaction{
			raw("Bieżące", "first", "-1", date(2024, 1, 1)),
			raw("Bieżące", "second", "-2", date(2024, 1, 1)),
		}, "")
		return err
	})

	assert.EqualError(t, err, "row 2: connection reset by peer")
	assert.Empty(t, e.all(t))
	accounts, listErr := e.db.Read().Accounts().List(context.Background(), nil)
	require.NoError(t, listErr)
	assert.Empty(t, accounts)
}

func TestImport_LogsSummary(t *testing.T) {
	e := newEngine(t)

	e.importRows(t, []ledger.RawTransaction{raw("Bieżące", "Kawa", "-9", date(2024, 1, 1))}, "mbank")

	last := e.hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "Importer.Import.complete", last.Message)
	assert.Equal(t, 1, last.Data["imported"])
	assert.Equal(t, "mbank", last.Data["bank"])
}
