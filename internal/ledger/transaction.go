package ledger

import (
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// AmountPlaces is the fixed-point scale of every stored amount.
const AmountPlaces = 2

// Transaction is a persisted ledger entry.
//
// MonthNumber and Year always mirror Date; use SetDate instead of assigning
// Date directly. RelatedTransactionID, when valid, names the other leg of a
// transfer pair and the relation is symmetric.
type Transaction struct {
	ID                   uuid.UUID
	Date                 time.Time
	Description          string
	Amount               decimal.Decimal
	AccountID            uuid.UUID
	CategoryID           uuid.NullUUID
	SubcategoryID        uuid.NullUUID
	MonthNumber          int
	Year                 int
	IsInsignificant      bool
	IsTransfer           bool
	BankName             string
	RelatedTransactionID uuid.NullUUID
	CreatedAt            time.Time
	UpdatedAt            *time.Time
}

// SetDate normalizes d to a calendar day and recomputes MonthNumber and Year.
func (t *Transaction) SetDate(d time.Time) {
	t.Date = DateOnly(d)
	t.MonthNumber = int(t.Date.Month())
	t.Year = t.Date.Year()
}

// IsPaired reports whether the transaction is linked to a sibling leg.
func (t *Transaction) IsPaired() bool {
	return t.RelatedTransactionID.Valid
}

// Key returns the duplicate-detection key of the transaction.
func (t *Transaction) Key() DuplicateKey {
	return DuplicateKey{
		Description: t.Description,
		Date:        t.Date,
		Amount:      t.Amount,
		AccountID:   t.AccountID,
	}
}

// TransactionCreate is the input for inserting a transaction. MonthNumber and
// Year are derived from Date by the store.
type TransactionCreate struct {
	Date            time.Time
	Description     string
	Amount          decimal.Decimal
	AccountID       uuid.UUID
	CategoryID      uuid.NullUUID
	SubcategoryID   uuid.NullUUID
	IsInsignificant bool
	IsTransfer      bool
	BankName        string
}

// NewTransaction builds the row a store persists for create.
func NewTransaction(id uuid.UUID, create *TransactionCreate, now time.Time) Transaction {
	t := Transaction{
		ID:              id,
		Description:     create.Description,
		Amount:          RoundAmount(create.Amount),
		AccountID:       create.AccountID,
		CategoryID:      create.CategoryID,
		SubcategoryID:   create.SubcategoryID,
		IsInsignificant: create.IsInsignificant,
		IsTransfer:      create.IsTransfer,
		BankName:        create.BankName,
		CreatedAt:       now,
	}
	t.SetDate(create.Date)
	return t
}

// TransactionPatch carries a partial edit. Unset fields are left untouched.
type TransactionPatch struct {
	Date            omit.Val[time.Time]
	Description     omit.Val[string]
	Amount          omit.Val[decimal.Decimal]
	AccountID       omit.Val[uuid.UUID]
	CategoryID      omit.Val[uuid.NullUUID]
	SubcategoryID   omit.Val[uuid.NullUUID]
	IsInsignificant omit.Val[bool]
}

// Apply writes the set fields of p onto t.
func (p TransactionPatch) Apply(t *Transaction) {
	if d, ok := p.Date.Get(); ok {
		t.SetDate(d)
	}
	if desc, ok := p.Description.Get(); ok {
		t.Description = desc
	}
	if amount, ok := p.Amount.Get(); ok {
		t.Amount = RoundAmount(amount)
	}
	if accountID, ok := p.AccountID.Get(); ok {
		t.AccountID = accountID
	}
	if categoryID, ok := p.CategoryID.Get(); ok {
		t.CategoryID = categoryID
	}
	if subcategoryID, ok := p.SubcategoryID.Get(); ok {
		t.SubcategoryID = subcategoryID
	}
	if insignificant, ok := p.IsInsignificant.Get(); ok {
		t.IsInsignificant = insignificant
	}
}

// DuplicateKey identifies a transaction for duplicate detection.
type DuplicateKey struct {
	Description string
	Date        time.Time
	Amount      decimal.Decimal
	AccountID   uuid.UUID
}

// UnpairedQuery selects stored transfer legs that could pair with a row of
// the given amount on the given account.
type UnpairedQuery struct {
	Amount           decimal.Decimal
	ExcludeAccountID uuid.UUID
	From             time.Time
	To               time.Time
	ExcludeIDs       []uuid.UUID
}

// TransactionFilter specifies filters for listing transactions.
type TransactionFilter struct {
	Year                 *int
	Month                *int
	AccountID            *uuid.UUID
	CategoryID           *uuid.UUID
	HasNoCategory        bool
	HideTransfers        bool
	IncludeInsignificant bool
	IsInsignificant      *bool
	MinAmount            *decimal.Decimal
	MaxAmount            *decimal.Decimal
	SearchTerm           string
	Limit                int
	Offset               int
}

// TransferRequest is the input for creating a linked transfer pair.
type TransferRequest struct {
	SourceAccountID uuid.UUID
	TargetAccountID uuid.UUID
	Amount          decimal.Decimal
	Date            time.Time
	Description     string
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RoundAmount rounds to the stored fixed-point scale.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}
