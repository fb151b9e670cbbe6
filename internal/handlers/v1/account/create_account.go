package account

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finances-tracker/internal/handlers/v1/apierror"
	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/logging"
)

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	Body CreateAccountBody
}

// CreateAccountBody is the request body fields for creating an account.
type CreateAccountBody struct {
	Name             string `json:"name" minLength:"1" doc:"Account name"`
	Type             int    `json:"type" minimum:"0" maximum:"4" doc:"Account type: 0=Cash, 1=Credit Cards, 2=Investments, 3=Loans, 4=Assets"`
	BankName         string `json:"bankName,omitempty" doc:"Bank holding the account"`
	ImportIdentifier string `json:"importIdentifier,omitempty" doc:"Text identifying the account in statement descriptions"`
	Currency         string `json:"currency,omitempty" doc:"ISO currency code, defaults to the configured currency"`
	InitialBalance   string `json:"initialBalance,omitempty" doc:"Initial balance (e.g. '0' or '1234.56'), defaults to 0"`
}

// CreateAccountResponse is the response body for creating an account.
type CreateAccountResponse struct {
	ID string `json:"id" doc:"Created account UUID"`
}

// CreateAccountOutput is the response for creating an account.
type CreateAccountOutput struct {
	Status int
	Body   CreateAccountResponse
}

// accountCreator is the interface for creating accounts.
type accountCreator interface {
	CreateAccount(ctx context.Context, create ledger.AccountCreate) (*ledger.Account, error)
}

// CreateAccountHandler handles POST /v1/account.
type CreateAccountHandler struct {
	AccountService  accountCreator
	DefaultCurrency string
}

// NewCreateAccountHandler creates a new CreateAccountHandler.
func NewCreateAccountHandler(svc accountCreator, defaultCurrency string) *CreateAccountHandler {
	return &CreateAccountHandler{AccountService: svc, DefaultCurrency: defaultCurrency}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-account",
		Method:      http.MethodPost,
		Path:        "/v1/account",
		Summary:     "Create an account",
		Description: "Creates a new account. Its balance is derived from the ledger.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *CreateAccountHandler) parseCreateAccountInput(input *CreateAccountInput) (ledger.AccountCreate, error) {
	balanceStr := input.Body.InitialBalance
	if balanceStr == "" {
		balanceStr = "0"
	}
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return ledger.AccountCreate{}, huma.NewError(http.StatusBadRequest, "invalid initialBalance", err)
	}

	if input.Body.Type < 0 || input.Body.Type > 4 {
		return ledger.AccountCreate{}, huma.NewError(http.StatusBadRequest, "type must be 0-4")
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Body.Currency))
	if currency == "" {
		currency = h.DefaultCurrency
	}
	if len(currency) != 3 {
		return ledger.AccountCreate{}, huma.NewError(http.StatusBadRequest, "currency must be a 3-letter code")
	}

	return ledger.AccountCreate{
		Name:             input.Body.Name,
		Type:             ledger.AccountType(input.Body.Type),
		BankName:         input.Body.BankName,
		ImportIdentifier: strings.TrimSpace(input.Body.ImportIdentifier),
		Currency:         currency,
		InitialBalance:   balance,
	}, nil
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	create, err := h.parseCreateAccountInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("createAccountMs")
	account, err := h.AccountService.CreateAccount(ctx, create)
	stopTimer()
	if err != nil {
		return nil, apierror.New("failed to create account", err)
	}

	logData.AddData("accountID", account.ID.String())

	return &CreateAccountOutput{
		Status: http.StatusCreated,
		Body:   CreateAccountResponse{ID: account.ID.String()},
	}, nil
}
