package service

import (
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

// AccountBalance is an account's derived balance: the initial balance plus
// every ledger amount on the account.
type AccountBalance struct {
	AccountID      uuid.UUID
	Currency       string
	InitialBalance decimal.Decimal
	Balance        decimal.Decimal
	Transactions   int
}
