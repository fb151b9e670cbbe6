package service

import (
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// UncategorizedName labels the summary group of rows without a category.
const UncategorizedName = "Brak kategorii"

// TransactionCursor identifies a position in a paginated result set.
type TransactionCursor struct {
	Position int
	Limit    int
}

// SummaryQuery selects the period of a summary. Month is optional.
type SummaryQuery struct {
	Year                 int
	Month                *int
	IncludeInsignificant bool
}

// CategorySummary aggregates one category. Expenses are negative.
type CategorySummary struct {
	CategoryID   uuid.NullUUID
	CategoryName string
	Income       decimal.Decimal
	Expenses     decimal.Decimal
	Total        decimal.Decimal
}

// Summary aggregates a period. TotalExpenses is reported as a positive
// amount; Balance is income minus expenses.
type Summary struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Balance       decimal.Decimal
	Categories    []CategorySummary
}
