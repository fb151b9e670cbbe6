package transaction

import (
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

// DateLayout is the wire format of transaction dates.
const DateLayout = "2006-01-02"

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID                   string `json:"id" doc:"Transaction UUID"`
	Date                 string `json:"date" doc:"Transaction date (YYYY-MM-DD)"`
	Description          string `json:"description" doc:"Statement description"`
	Amount               string `json:"amount" doc:"Signed decimal amount, negative for outflows"`
	AccountID            string `json:"accountID" doc:"Account UUID"`
	CategoryID           string `json:"categoryID,omitempty" doc:"Category UUID"`
	SubcategoryID        string `json:"subcategoryID,omitempty" doc:"Subcategory UUID"`
	Month                int    `json:"month" doc:"Month number of the date"`
	Year                 int    `json:"year" doc:"Year of the date"`
	IsInsignificant      bool   `json:"isInsignificant" doc:"Excluded from default views and summaries"`
	IsTransfer           bool   `json:"isTransfer" doc:"Moves money between own accounts"`
	BankName             string `json:"bankName,omitempty" doc:"Source bank tag"`
	RelatedTransactionID string `json:"relatedTransactionID,omitempty" doc:"The other leg of a transfer pair"`
}

func fromLedger(t *ledger.Transaction) Transaction {
	out := Transaction{
		ID:              t.ID.String(),
		Date:            t.Date.Format(DateLayout),
		Description:     t.Description,
		Amount:          t.Amount.StringFixed(ledger.AmountPlaces),
		AccountID:       t.AccountID.String(),
		Month:           t.MonthNumber,
		Year:            t.Year,
		IsInsignificant: t.IsInsignificant,
		IsTransfer:      t.IsTransfer,
		BankName:        t.BankName,
	}
	if t.CategoryID.Valid {
		out.CategoryID = t.CategoryID.UUID.String()
	}
	if t.SubcategoryID.Valid {
		out.SubcategoryID = t.SubcategoryID.UUID.String()
	}
	if t.RelatedTransactionID.Valid {
		out.RelatedTransactionID = t.RelatedTransactionID.UUID.String()
	}
	return out
}

func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.FromString(s)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return id, nil
}

// parseNullID treats an empty string as "no value".
func parseNullID(field, s string) (uuid.NullUUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := parseID(field, s)
	if err != nil {
		return uuid.NullUUID{}, err
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	return amount, nil
}

// parseDate returns today for an empty string.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return ledger.DateOnly(time.Now()), nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, huma.NewError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", err)
	}
	return d, nil
}
