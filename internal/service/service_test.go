package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finances-tracker/internal/classify"
	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/operator"
	"github.com/carson-networks/finances-tracker/internal/operator/actions"
	"github.com/carson-networks/finances-tracker/internal/reconcile"
	"github.com/carson-networks/finances-tracker/internal/rules"
	"github.com/carson-networks/finances-tracker/internal/storage/memory"
)

// mockProcessor is a mock for processor.
type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, action actions.IAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

type fixture struct {
	svc        *Service
	db         *memory.Database
	ruleLoads  int
	rulesCache *rules.AccountRuleCache
}

// newFixture wires the services over an in-memory ledger and a running
// operator, as main does for STORAGE_DRIVER=memory.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{db: memory.New()}

	op := operator.NewOperatorDelegator(f.db, 1)
	op.Start()
	t.Cleanup(op.Stop)

	f.rulesCache = rules.NewAccountRuleCache(time.Hour, func(ctx context.Context) ([]ledger.AccountRule, error) {
		f.ruleLoads++
		return f.db.Read().Rules().ActiveAccountRules(ctx)
	})
	logger, _ := test.NewNullLogger()
	importer := reconcile.NewImporter(
		reconcile.NewAccountResolver(f.rulesCache, reconcile.DefaultAutoAccount()),
		classify.DefaultKeywords(),
		logger,
	)

	f.svc = NewService(Deps{
		DB:        f.db,
		Operator:  op,
		Importer:  importer,
		RuleCache: f.rulesCache,
	})
	return f
}

func (f *fixture) account(t *testing.T, name, initial string) *ledger.Account {
	t.Helper()
	acc, err := f.svc.Account.CreateAccount(context.Background(), ledger.AccountCreate{
		Name:           name,
		Currency:       "PLN",
		InitialBalance: decimal.RequireFromString(initial),
	})
	require.NoError(t, err)
	return acc
}

func (f *fixture) transaction(t *testing.T, create ledger.TransactionCreate) *ledger.Transaction {
	t.Helper()
	tx, err := f.svc.Transaction.CreateTransaction(context.Background(), create)
	require.NoError(t, err)
	return tx
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func timeMonth(m int) time.Month {
	return time.Month(m)
}

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
