package ledger

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// RawTransaction is a normalized statement row before reconciliation.
// It is never persisted as-is.
type RawTransaction struct {
	Date         time.Time
	Description  string
	Amount       decimal.Decimal
	AccountLabel string
	// AccountID short-circuits account resolution when set.
	AccountID    uuid.UUID
	CategoryHint string
	Bank         string
	// Rejection, when set, rejects the row before reconciliation.
	Rejection    string
}

// ImportResult summarizes one import batch.
type ImportResult struct {
	Imported        int
	Insignificant   int
	Transfers       int
	Paired          int
	Duplicates      int
	Rejected        int
	AccountsCreated []string
	Warnings        []string
}
