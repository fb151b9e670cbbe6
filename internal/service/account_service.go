package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/operator/actions"
)

const defaultAccountLimit = 20

// AccountService handles account business logic.
type AccountService struct {
	db       ledger.Database
	operator processor
}

// NewAccountService creates a new AccountService.
func NewAccountService(db ledger.Database, op processor) *AccountService {
	return &AccountService{db: db, operator: op}
}

// CreateAccount creates a new account and returns it.
func (s *AccountService) CreateAccount(ctx context.Context, create ledger.AccountCreate) (*ledger.Account, error) {
	action := &actions.CreateAccount{Create: create}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Created, nil
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	return s.db.Read().Accounts().FindByID(ctx, id)
}

// ListAccounts returns a page of accounts using cursor pagination.
func (s *AccountService) ListAccounts(ctx context.Context, cursor *AccountCursor) ([]*ledger.Account, *AccountCursor, error) {
	limit := defaultAccountLimit
	offset := 0
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
	}

	// One extra row tells whether another page exists.
	filter := &ledger.AccountFilter{
		Limit:  limit + 1,
		Offset: offset,
	}

	accounts, err := s.db.Read().Accounts().List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	if len(accounts) == 0 {
		return nil, nil, nil
	}

	var nextCursor *AccountCursor
	if len(accounts) > limit {
		accounts = accounts[:limit]
		nextCursor = &AccountCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}

	return accounts, nextCursor, nil
}

// Balance derives the current balance of an account from the ledger.
func (s *AccountService) Balance(ctx context.Context, id uuid.UUID) (*AccountBalance, error) {
	store := s.db.Read()
	account, err := store.Accounts().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	txs, err := store.Transactions().List(ctx, &ledger.TransactionFilter{
		AccountID:            &id,
		IncludeInsignificant: true,
	})
	if err != nil {
		return nil, err
	}

	balance := account.InitialBalance
	for _, t := range txs {
		balance = balance.Add(t.Amount)
	}

	return &AccountBalance{
		AccountID:      account.ID,
		Currency:       account.Currency,
		InitialBalance: account.InitialBalance,
		Balance:        balance,
		Transactions:   len(txs),
	}, nil
}
