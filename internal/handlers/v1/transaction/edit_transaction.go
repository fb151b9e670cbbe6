package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finances-tracker/internal/handlers/v1/apierror"
	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/logging"
)

// UpdateTransactionInput is the Huma input for editing a transaction.
type UpdateTransactionInput struct {
	ID   string `path:"id" doc:"Transaction UUID"`
	Body UpdateTransactionBody
}

// UpdateTransactionBody holds the fields to change. Absent fields are kept;
// an empty categoryID or subcategoryID clears the value.
type UpdateTransactionBody struct {
	Date            *string `json:"date,omitempty" doc:"Transaction date (YYYY-MM-DD)"`
	Description     *string `json:"description,omitempty" doc:"Description"`
	Amount          *string `json:"amount,omitempty" doc:"Signed decimal amount"`
	AccountID       *string `json:"accountID,omitempty" doc:"Account UUID"`
	CategoryID      *string `json:"categoryID,omitempty" doc:"Category UUID, empty to clear"`
	SubcategoryID   *string `json:"subcategoryID,omitempty" doc:"Subcategory UUID, empty to clear"`
	IsInsignificant *bool   `json:"isInsignificant,omitempty" doc:"Exclude from default views"`
}

type TransactionOutput struct {
	Body Transaction
}

type DeleteTransactionInput struct {
	ID string `path:"id" doc:"Transaction UUID"`
}

type DeleteTransactionResponse struct {
	Deleted []string `json:"deleted" doc:"Ids removed, including the paired leg"`
}

type DeleteTransactionOutput struct {
	Body DeleteTransactionResponse
}

type ToggleInsignificantInput struct {
	ID string `path:"id" doc:"Transaction UUID"`
}

// transactionEditor is the interface for editing stored transactions.
type transactionEditor interface {
	UpdateTransaction(ctx context.Context, id uuid.UUID, patch ledger.TransactionPatch) (*ledger.Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	ToggleInsignificant(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)
}

// EditTransactionHandler handles PUT and DELETE /v1/transaction/{id} and
// POST /v1/transaction/{id}/toggle-insignificant.
type EditTransactionHandler struct {
	TransactionService transactionEditor
}

func NewEditTransactionHandler(svc transactionEditor) *EditTransactionHandler {
	return &EditTransactionHandler{TransactionService: svc}
}

func (h *EditTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPut,
		Path:        "/v1/transaction/{id}",
		Summary:     "Update a transaction",
		Description: "Applies a partial edit. A paired leg receives the same date and description and the negated amount.",
		Tags:        []string{"Transactions"},
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID: "delete-transaction",
		Method:      http.MethodDelete,
		Path:        "/v1/transaction/{id}",
		Summary:     "Delete a transaction",
		Description: "Deletes the transaction and, for a transfer pair, its sibling.",
		Tags:        []string{"Transactions"},
	}, h.remove)

	huma.Register(api, huma.Operation{
		OperationID: "toggle-insignificant",
		Method:      http.MethodPost,
		Path:        "/v1/transaction/{id}/toggle-insignificant",
		Summary:     "Toggle the insignificant flag",
		Tags:        []string{"Transactions"},
	}, h.toggle)
}

func parsePatch(body *UpdateTransactionBody) (ledger.TransactionPatch, error) {
	var patch ledger.TransactionPatch
	if body.Date != nil {
		d, err := time.Parse(DateLayout, *body.Date)
		if err != nil {
			return patch, huma.NewError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", err)
		}
		patch.Date = omit.From(d)
	}
	if body.Description != nil {
		patch.Description = omit.From(*body.Description)
	}
	if body.Amount != nil {
		amount, err := parseAmount(*body.Amount)
		if err != nil {
			return patch, err
		}
		patch.Amount = omit.From[decimal.Decimal](amount)
	}
	if body.AccountID != nil {
		id, err := parseID("accountID", *body.AccountID)
		if err != nil {
			return patch, err
		}
		patch.AccountID = omit.From(id)
	}
	if body.CategoryID != nil {
		id, err := parseNullID("categoryID", *body.CategoryID)
		if err != nil {
			return patch, err
		}
		patch.CategoryID = omit.From(id)
	}
	if body.SubcategoryID != nil {
		id, err := parseNullID("subcategoryID", *body.SubcategoryID)
		if err != nil {
			return patch, err
		}
		patch.SubcategoryID = omit.From(id)
	}
	if body.IsInsignificant != nil {
		patch.IsInsignificant = omit.From(*body.IsInsignificant)
	}
	return patch, nil
}

func (h *EditTransactionHandler) update(ctx context.Context, input *UpdateTransactionInput) (*TransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	id, err := parseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	patch, err := parsePatch(&input.Body)
	if err != nil {
		return nil, err
	}

	logData.AddData("transactionID", id.String())
	stopTimer := logData.AddTiming("updateTransactionMs")
	updated, err := h.TransactionService.UpdateTransaction(ctx, id, patch)
	stopTimer()
	if err != nil {
		return nil, apierror.New("failed to update transaction", err)
	}
	return &TransactionOutput{Body: fromLedger(updated)}, nil
}

func (h *EditTransactionHandler) remove(ctx context.Context, input *DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	id, err := parseID("id", input.ID)
	if err != nil {
		return nil, err
	}

	logData.AddData("transactionID", id.String())
	ids, err := h.TransactionService.DeleteTransaction(ctx, id)
	if err != nil {
		return nil, apierror.New("failed to delete transaction", err)
	}

	resp := DeleteTransactionResponse{Deleted: make([]string, len(ids))}
	for i, deleted := range ids {
		resp.Deleted[i] = deleted.String()
	}
	return &DeleteTransactionOutput{Body: resp}, nil
}

func (h *EditTransactionHandler) toggle(ctx context.Context, input *ToggleInsignificantInput) (*TransactionOutput, error) {
	id, err := parseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	updated, err := h.TransactionService.ToggleInsignificant(ctx, id)
	if err != nil {
		return nil, apierror.New("failed to toggle transaction", err)
	}
	return &TransactionOutput{Body: fromLedger(updated)}, nil
}
