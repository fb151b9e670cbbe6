// Package summary exposes per-category income and expense aggregates.
package summary

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finances-tracker/internal/handlers/v1/apierror"
	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/logging"
	"github.com/carson-networks/finances-tracker/internal/service"
)

type GetSummaryInput struct {
	Year                 int  `query:"year" required:"true" minimum:"1900" maximum:"9999" doc:"Calendar year"`
	Month                int  `query:"month" minimum:"0" maximum:"12" doc:"Month number, 0 or absent for the whole year"`
	IncludeInsignificant bool `query:"includeInsignificant" doc:"Count insignificant rows"`
}

type Category struct {
	CategoryID   string `json:"categoryID,omitempty" doc:"Category UUID, absent for the uncategorized group"`
	CategoryName string `json:"categoryName" doc:"Category name"`
	Income       string `json:"income" doc:"Sum of positive amounts"`
	Expenses     string `json:"expenses" doc:"Sum of negative amounts"`
	Total        string `json:"total" doc:"Net amount"`
}

type Body struct {
	TotalIncome   string     `json:"totalIncome" doc:"Sum of positive amounts"`
	TotalExpenses string     `json:"totalExpenses" doc:"Absolute sum of negative amounts"`
	Balance       string     `json:"balance" doc:"Income minus expenses"`
	Categories    []Category `json:"categories" doc:"Per-category aggregates"`
}

type GetSummaryOutput struct {
	Body Body
}

type summarizer interface {
	Summary(ctx context.Context, query service.SummaryQuery) (*service.Summary, error)
}

// Handler handles GET /v1/summary.
type Handler struct {
	TransactionService summarizer
}

func NewHandler(svc summarizer) *Handler {
	return &Handler{TransactionService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-summary",
		Method:      http.MethodGet,
		Path:        "/v1/summary",
		Summary:     "Summarize a period",
		Description: "Aggregates income and expenses per category for a year or a month. Transfer legs are excluded.",
		Tags:        []string{"Summary"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, input *GetSummaryInput) (*GetSummaryOutput, error) {
	logData := logging.GetLogData(ctx)

	query := service.SummaryQuery{
		Year:                 input.Year,
		IncludeInsignificant: input.IncludeInsignificant,
	}
	if input.Month > 0 {
		month := input.Month
		query.Month = &month
	}

	stopTimer := logData.AddTiming("summaryMs")
	summary, err := h.TransactionService.Summary(ctx, query)
	stopTimer()
	if err != nil {
		return nil, apierror.New("failed to build summary", err)
	}

	body := Body{
		TotalIncome:   summary.TotalIncome.StringFixed(ledger.AmountPlaces),
		TotalExpenses: summary.TotalExpenses.StringFixed(ledger.AmountPlaces),
		Balance:       summary.Balance.StringFixed(ledger.AmountPlaces),
		Categories:    make([]Category, len(summary.Categories)),
	}
	for i, c := range summary.Categories {
		body.Categories[i] = Category{
			CategoryName: c.CategoryName,
			Income:       c.Income.StringFixed(ledger.AmountPlaces),
			Expenses:     c.Expenses.StringFixed(ledger.AmountPlaces),
			Total:        c.Total.StringFixed(ledger.AmountPlaces),
		}
		if c.CategoryID.Valid {
			body.Categories[i].CategoryID = c.CategoryID.UUID.String()
		}
	}
	return &GetSummaryOutput{Body: body}, nil
}
