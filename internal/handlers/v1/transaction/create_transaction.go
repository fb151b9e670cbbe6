package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finances-tracker/internal/handlers/v1/apierror"
	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/logging"
)

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionBody is the request body fields for creating a transaction.
type CreateTransactionBody struct {
	AccountID       string `json:"accountID" doc:"Account UUID"`
	Amount          string `json:"amount" doc:"Signed decimal amount, must not be zero"`
	Description     string `json:"description" minLength:"1" doc:"Description of the transaction"`
	Date            string `json:"date,omitempty" doc:"Transaction date (YYYY-MM-DD), defaults to today"`
	CategoryID      string `json:"categoryID,omitempty" doc:"Category UUID, category rules apply when absent"`
	SubcategoryID   string `json:"subcategoryID,omitempty" doc:"Subcategory UUID"`
	IsInsignificant bool   `json:"isInsignificant,omitempty" doc:"Exclude from default views"`
}

// CreateTransactionOutput is the response for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   Transaction
}

// transactionCreator is the interface for creating transactions.
type transactionCreator interface {
	CreateTransaction(ctx context.Context, create ledger.TransactionCreate) (*ledger.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction",
		Summary:     "Create a transaction",
		Description: "Creates a manual ledger entry on an existing account.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseCreateTransactionInput(input *CreateTransactionInput) (ledger.TransactionCreate, error) {
	accountID, err := parseID("accountID", input.Body.AccountID)
	if err != nil {
		return ledger.TransactionCreate{}, err
	}
	amount, err := parseAmount(input.Body.Amount)
	if err != nil {
		return ledger.TransactionCreate{}, err
	}
	date, err := parseDate(input.Body.Date)
	if err != nil {
		return ledger.TransactionCreate{}, err
	}
	categoryID, err := parseNullID("categoryID", input.Body.CategoryID)
	if err != nil {
		return ledger.TransactionCreate{}, err
	}
	subcategoryID, err := parseNullID("subcategoryID", input.Body.SubcategoryID)
	if err != nil {
		return ledger.TransactionCreate{}, err
	}

	return ledger.TransactionCreate{
		Date:            date,
		Description:     input.Body.Description,
		Amount:          amount,
		AccountID:       accountID,
		CategoryID:      categoryID,
		SubcategoryID:   subcategoryID,
		IsInsignificant: input.Body.IsInsignificant,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	create, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("createTransactionMs")
	created, err := h.TransactionService.CreateTransaction(ctx, create)
	stopTimer()
	if err != nil {
		return nil, apierror.New("failed to create transaction", err)
	}

	logData.AddData("transactionID", created.ID.String())

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   fromLedger(created),
	}, nil
}
