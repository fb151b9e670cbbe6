package ledger

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

// IAccountStore defines account storage operations.
type IAccountStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	// FindByName matches the stored name exactly (case-sensitive).
	FindByName(ctx context.Context, name string) (*Account, error)
	Insert(ctx context.Context, create *AccountCreate) (*Account, error)
	List(ctx context.Context, filter *AccountFilter) ([]*Account, error)
	// ImportIdentifiers returns every non-empty account import identifier.
	ImportIdentifiers(ctx context.Context) ([]string, error)
}

// ITransactionStore defines transaction storage operations.
type ITransactionStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Exists(ctx context.Context, key DuplicateKey) (bool, error)
	Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error)
	// Update rewrites every mutable column except the pair link.
	Update(ctx context.Context, t *Transaction) error
	// Link sets the symmetric pair relation between a and b. It fails with
	// ErrAlreadyPaired if either side is already linked.
	Link(ctx context.Context, a, b uuid.UUID) error
	Delete(ctx context.Context, ids ...uuid.UUID) error
	// ListUnpairedTransfers returns candidates ordered by date then insertion.
	ListUnpairedTransfers(ctx context.Context, query *UnpairedQuery) ([]*Transaction, error)
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
}

// IRuleStore defines rule storage operations. Active rule lists are ordered
// by keyword ascending.
type IRuleStore interface {
	ActiveCategoryRules(ctx context.Context) ([]CategoryRule, error)
	ActiveAccountRules(ctx context.Context) ([]AccountRule, error)
	InsertCategoryRule(ctx context.Context, rule *CategoryRule) (uuid.UUID, error)
	InsertAccountRule(ctx context.Context, rule *AccountRule) (uuid.UUID, error)
	SetAccountRuleActive(ctx context.Context, id uuid.UUID, active bool) error
	DeleteAccountRule(ctx context.Context, id uuid.UUID) error
}

// ICategoryStore defines category and subcategory storage operations.
type ICategoryStore interface {
	InsertCategory(ctx context.Context, name string) (uuid.UUID, error)
	InsertSubcategory(ctx context.Context, categoryID uuid.UUID, name string) (uuid.UUID, error)
	FindSubcategory(ctx context.Context, id uuid.UUID) (*Subcategory, error)
	// ListCategories returns every category ordered by name.
	ListCategories(ctx context.Context) ([]Category, error)
}

// Store groups the table stores sharing one executor.
type Store interface {
	Accounts() IAccountStore
	Transactions() ITransactionStore
	Rules() IRuleStore
	Categories() ICategoryStore
}

// UnitOfWork is a Store whose writes become visible together on Commit and
// disappear together on Rollback.
type UnitOfWork interface {
	Store
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Database hands out units of work and a non-transactional reader.
type Database interface {
	Write(ctx context.Context) (UnitOfWork, error)
	Read() Store
}
