package account

import (
	"time"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

// Account is the API response model for an account.
type Account struct {
	ID               string `json:"id" doc:"Account UUID"`
	Name             string `json:"name" doc:"Account name"`
	Type             int    `json:"type" doc:"Account type: 0=Cash, 1=Credit Cards, 2=Investments, 3=Loans, 4=Assets"`
	BankName         string `json:"bankName" doc:"Bank holding the account"`
	ImportIdentifier string `json:"importIdentifier,omitempty" doc:"Text identifying the account in statement descriptions"`
	Currency         string `json:"currency" doc:"ISO currency code"`
	InitialBalance   string `json:"initialBalance" doc:"Decimal balance before the first ledger row"`
	IsActive         bool   `json:"isActive" doc:"Whether the account is active"`
	CreatedAt        string `json:"createdAt" doc:"RFC3339 creation time"`
}

func fromLedger(a *ledger.Account) Account {
	return Account{
		ID:               a.ID.String(),
		Name:             a.Name,
		Type:             int(a.Type),
		BankName:         a.BankName,
		ImportIdentifier: a.ImportIdentifier,
		Currency:         a.Currency,
		InitialBalance:   a.InitialBalance.StringFixed(ledger.AmountPlaces),
		IsActive:         a.IsActive,
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
	}
}
