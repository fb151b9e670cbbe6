package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/storage/account"
	"github.com/carson-networks/finances-tracker/internal/storage/category"
	"github.com/carson-networks/finances-tracker/internal/storage/rule"
	"github.com/carson-networks/finances-tracker/internal/storage/transaction"
)

var _ ledger.Store = (*Reader)(nil)

// Reader groups the table stores over one executor, either the pool or a
// transaction.
type Reader struct {
	accounts     *account.Table
	transactions *transaction.Table
	rules        *rule.Table
	categories   *category.Table
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		accounts:     account.NewTable(exec),
		transactions: transaction.NewTable(exec),
		rules:        rule.NewTable(exec),
		categories:   category.NewTable(exec),
	}
}

func (r *Reader) Accounts() ledger.IAccountStore         { return r.accounts }
func (r *Reader) Transactions() ledger.ITransactionStore { return r.transactions }
func (r *Reader) Rules() ledger.IRuleStore               { return r.rules }
func (r *Reader) Categories() ledger.ICategoryStore      { return r.categories }
