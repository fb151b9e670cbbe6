package ledger

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type AccountType int8

const (
	AccountTypeCash AccountType = iota
	AccountTypeCreditCards
	AccountTypeInvestments
	AccountTypeLoans
	AccountTypeAssets
)

// Account is one of the user's own money containers.
// The current balance is derived from the ledger and never stored.
type Account struct {
	ID               uuid.UUID
	Name             string
	Type             AccountType
	BankName         string
	ImportIdentifier string
	Currency         string
	InitialBalance   decimal.Decimal
	IsActive         bool
	CreatedAt        time.Time
}

// AccountCreate is the input for creating a new account.
type AccountCreate struct {
	Name             string
	Type             AccountType
	BankName         string
	ImportIdentifier string
	Currency         string
	InitialBalance   decimal.Decimal
}

// AccountFilter specifies filters for listing accounts.
type AccountFilter struct {
	OnlyActive bool
	Limit      int
	Offset     int
}
