package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finances-tracker/internal/handlers/v1/apierror"
	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/logging"
)

type CreateTransferInput struct {
	Body CreateTransferBody
}

type CreateTransferBody struct {
	SourceAccountID string `json:"sourceAccountID" doc:"Account the money leaves"`
	TargetAccountID string `json:"targetAccountID" doc:"Account the money arrives on"`
	Amount          string `json:"amount" doc:"Positive decimal amount"`
	Date            string `json:"date,omitempty" doc:"Transfer date (YYYY-MM-DD), defaults to today"`
	Description     string `json:"description,omitempty" doc:"Description of both legs"`
}

type CreateTransferResponse struct {
	Source Transaction `json:"source" doc:"Outflow leg"`
	Target Transaction `json:"target" doc:"Inflow leg"`
}

type CreateTransferOutput struct {
	Status int
	Body   CreateTransferResponse
}

type transferCreator interface {
	CreateTransfer(ctx context.Context, req ledger.TransferRequest) (*ledger.Transaction, *ledger.Transaction, error)
}

// CreateTransferHandler handles POST /v1/transfer.
type CreateTransferHandler struct {
	TransactionService transferCreator
}

func NewCreateTransferHandler(svc transferCreator) *CreateTransferHandler {
	return &CreateTransferHandler{TransactionService: svc}
}

func (h *CreateTransferHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transfer",
		Method:      http.MethodPost,
		Path:        "/v1/transfer",
		Summary:     "Create a transfer",
		Description: "Creates two linked legs moving money between two of the user's accounts.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *CreateTransferHandler) handle(ctx context.Context, input *CreateTransferInput) (*CreateTransferOutput, error) {
	logData := logging.GetLogData(ctx)

	source, err := parseID("sourceAccountID", input.Body.SourceAccountID)
	if err != nil {
		return nil, err
	}
	target, err := parseID("targetAccountID", input.Body.TargetAccountID)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(input.Body.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(input.Body.Date)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("createTransferMs")
	out, in, err := h.TransactionService.CreateTransfer(ctx, ledger.TransferRequest{
		SourceAccountID: source,
		TargetAccountID: target,
		Amount:          amount,
		Date:            date,
		Description:     input.Body.Description,
	})
	stopTimer()
	if err != nil {
		return nil, apierror.New("failed to create transfer", err)
	}

	logData.AddData("sourceTransactionID", out.ID.String())
	logData.AddData("targetTransactionID", in.ID.String())

	return &CreateTransferOutput{
		Status: http.StatusCreated,
		Body: CreateTransferResponse{
			Source: fromLedger(out),
			Target: fromLedger(in),
		},
	}, nil
}
