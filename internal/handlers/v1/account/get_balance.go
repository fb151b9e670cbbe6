package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finances-tracker/internal/handlers/v1/apierror"
	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/service"
)

type GetBalanceInput struct {
	ID string `path:"id" doc:"Account UUID"`
}

type BalanceBody struct {
	AccountID      string `json:"accountID" doc:"Account UUID"`
	Currency       string `json:"currency" doc:"ISO currency code"`
	InitialBalance string `json:"initialBalance" doc:"Decimal initial balance"`
	Balance        string `json:"balance" doc:"Initial balance plus every ledger amount"`
	Transactions   int    `json:"transactions" doc:"Number of ledger rows on the account"`
}

type GetBalanceOutput struct {
	Body BalanceBody
}

type balanceReader interface {
	Balance(ctx context.Context, id uuid.UUID) (*service.AccountBalance, error)
}

// GetBalanceHandler handles GET /v1/account/{id}/balance.
type GetBalanceHandler struct {
	AccountService balanceReader
}

func NewGetBalanceHandler(svc balanceReader) *GetBalanceHandler {
	return &GetBalanceHandler{AccountService: svc}
}

func (h *GetBalanceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-account-balance",
		Method:      http.MethodGet,
		Path:        "/v1/account/{id}/balance",
		Summary:     "Get account balance",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *GetBalanceHandler) handle(ctx context.Context, input *GetBalanceInput) (*GetBalanceOutput, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}

	balance, err := h.AccountService.Balance(ctx, id)
	if err != nil {
		return nil, apierror.New("failed to compute balance", err)
	}

	return &GetBalanceOutput{Body: BalanceBody{
		AccountID:      balance.AccountID.String(),
		Currency:       balance.Currency,
		InitialBalance: balance.InitialBalance.StringFixed(ledger.AmountPlaces),
		Balance:        balance.Balance.StringFixed(ledger.AmountPlaces),
		Transactions:   balance.Transactions,
	}}, nil
}
