package transaction

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finances-tracker/internal/handlers/v1/apierror"
	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/logging"
	"github.com/carson-networks/finances-tracker/internal/service"
)

// ListTransactionsCursor represents a pagination cursor in request and response bodies.
type ListTransactionsCursor struct {
	Position int `json:"position" minimum:"0" doc:"Numeric offset position for the next page"`
	Limit    int `json:"limit" minimum:"1" maximum:"100" doc:"Page size used for this cursor"`
}

// ListTransactionsFilter narrows the listed transactions. Insignificant rows
// are hidden unless includeInsignificant or onlyInsignificant is set.
type ListTransactionsFilter struct {
	Year                 *int   `json:"year,omitempty" doc:"Calendar year"`
	Month                *int   `json:"month,omitempty" minimum:"1" maximum:"12" doc:"Month number"`
	AccountID            string `json:"accountID,omitempty" doc:"Account UUID"`
	CategoryID           string `json:"categoryID,omitempty" doc:"Category UUID"`
	Uncategorized        bool   `json:"uncategorized,omitempty" doc:"Only rows without a category"`
	HideTransfers        bool   `json:"hideTransfers,omitempty" doc:"Exclude transfer legs"`
	IncludeInsignificant bool   `json:"includeInsignificant,omitempty" doc:"Include insignificant rows"`
	OnlyInsignificant    bool   `json:"onlyInsignificant,omitempty" doc:"Only insignificant rows"`
	MinAmount            string `json:"minAmount,omitempty" doc:"Lower bound on the signed amount"`
	MaxAmount            string `json:"maxAmount,omitempty" doc:"Upper bound on the signed amount"`
	Search               string `json:"search,omitempty" doc:"Case-insensitive substring of the description"`
}

// ListTransactionsBody is the request body for listing transactions.
type ListTransactionsBody struct {
	Filter *ListTransactionsFilter `json:"filter,omitempty" doc:"Optional filters"`
	Cursor *ListTransactionsCursor `json:"cursor,omitempty" doc:"Cursor from a previous response to fetch the next page"`
}

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	Body ListTransactionsBody
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction           `json:"transactions" doc:"Page of transactions"`
	NextCursor   *ListTransactionsCursor `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the interface for listing transactions.
type transactionLister interface {
	ListTransactions(ctx context.Context, filter ledger.TransactionFilter, cursor *service.TransactionCursor) ([]*ledger.Transaction, *service.TransactionCursor, error)
}

// ListTransactionsHandler handles POST /v1/transaction/list.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodPost,
		Path:        "/v1/transaction/list",
		Summary:     "List transactions",
		Description: "Returns a filtered, paginated list of transactions, newest first.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseFilter(in *ListTransactionsFilter) (ledger.TransactionFilter, error) {
	var filter ledger.TransactionFilter
	if in == nil {
		return filter, nil
	}
	if in.IncludeInsignificant && in.OnlyInsignificant {
		return filter, huma.NewError(http.StatusBadRequest, "includeInsignificant and onlyInsignificant are exclusive")
	}

	filter.Year = in.Year
	filter.Month = in.Month
	filter.HasNoCategory = in.Uncategorized
	filter.HideTransfers = in.HideTransfers
	filter.IncludeInsignificant = in.IncludeInsignificant
	if in.OnlyInsignificant {
		only := true
		filter.IsInsignificant = &only
	}
	filter.SearchTerm = strings.TrimSpace(in.Search)

	if in.AccountID != "" {
		id, err := parseID("accountID", in.AccountID)
		if err != nil {
			return filter, err
		}
		filter.AccountID = &id
	}
	if in.CategoryID != "" {
		id, err := parseID("categoryID", in.CategoryID)
		if err != nil {
			return filter, err
		}
		filter.CategoryID = &id
	}
	if in.MinAmount != "" {
		lower, err := decimal.NewFromString(in.MinAmount)
		if err != nil {
			return filter, huma.NewError(http.StatusBadRequest, "invalid minAmount", err)
		}
		filter.MinAmount = &lower
	}
	if in.MaxAmount != "" {
		upper, err := decimal.NewFromString(in.MaxAmount)
		if err != nil {
			return filter, huma.NewError(http.StatusBadRequest, "invalid maxAmount", err)
		}
		filter.MaxAmount = &upper
	}
	return filter, nil
}

// parseListTransactionsInput parses and validates the API input.
// Without a cursor, the service uses its default limit.
func parseListTransactionsInput(input *ListTransactionsInput) (ledger.TransactionFilter, *service.TransactionCursor, error) {
	filter, err := parseFilter(input.Body.Filter)
	if err != nil {
		return filter, nil, err
	}
	if input.Body.Cursor == nil {
		return filter, nil, nil
	}
	if input.Body.Cursor.Position < 0 {
		return filter, nil, huma.NewError(http.StatusBadRequest, "cursor position must be non-negative")
	}
	return filter, &service.TransactionCursor{
		Position: input.Body.Cursor.Position,
		Limit:    input.Body.Cursor.Limit,
	}, nil
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)
	filter, requestCursor, err := parseListTransactionsInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("listTransactionsMs")
	transactions, nextCursor, err := h.TransactionService.ListTransactions(ctx, filter, requestCursor)
	stopTimer()
	if err != nil {
		return nil, apierror.New("failed to list transactions", err)
	}

	logData.AddData("transactionCount", len(transactions))

	resp := ListTransactionsResponseBody{
		Transactions: make([]Transaction, len(transactions)),
	}
	for i, tx := range transactions {
		resp.Transactions[i] = fromLedger(tx)
	}

	if nextCursor != nil {
		resp.NextCursor = &ListTransactionsCursor{
			Position: nextCursor.Position,
			Limit:    nextCursor.Limit,
		}
	}

	return &ListTransactionsOutput{Body: resp}, nil
}

