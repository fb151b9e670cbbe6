// Package imports exposes the batch import endpoints.
package imports

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finances-tracker/internal/handlers/v1/apierror"
	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/logging"
)

const dateLayout = "2006-01-02"

// Row is one already-normalized row of an import batch.
type Row struct {
	Date         string `json:"date" doc:"Transaction date (YYYY-MM-DD)"`
	Description  string `json:"description" doc:"Statement description"`
	Amount       string `json:"amount" doc:"Signed decimal amount"`
	AccountLabel string `json:"accountLabel,omitempty" doc:"Account name, import identifier or free text used to resolve the account"`
	AccountID    string `json:"accountID,omitempty" doc:"Account UUID, skips account resolution"`
	CategoryHint string `json:"categoryHint,omitempty" doc:"Bank-provided category text"`
}

type ImportRowsBody struct {
	BankTag string `json:"bankTag,omitempty" doc:"Bank tag stored on every imported row"`
	Rows    []Row  `json:"rows" doc:"Rows to reconcile into the ledger"`
}

type ImportRowsInput struct {
	Body ImportRowsBody
}

type ImportStatementBody struct {
	Format  string `json:"format" doc:"Statement format, e.g. mbank or millennium"`
	Content string `json:"content" doc:"Raw statement text"`
}

type ImportStatementInput struct {
	Body ImportStatementBody
}

// Result reports the outcome counts of one batch.
type Result struct {
	Imported        int      `json:"imported" doc:"Rows written to the ledger"`
	Insignificant   int      `json:"insignificant" doc:"Imported rows flagged insignificant"`
	Transfers       int      `json:"transfers" doc:"Imported rows flagged as transfers"`
	Paired          int      `json:"paired" doc:"Transfer pairs linked during the batch"`
	Duplicates      int      `json:"duplicates" doc:"Rows skipped as duplicates"`
	Rejected        int      `json:"rejected" doc:"Rows rejected as invalid"`
	AccountsCreated []string `json:"accountsCreated" doc:"Names of accounts created automatically"`
	Warnings        []string `json:"warnings" doc:"One message per rejected row"`
}

type ImportOutput struct {
	Body Result
}

type importer interface {
	Import(ctx context.Context, rows []ledger.RawTransaction, bankTag string) (*ledger.ImportResult, error)
	ImportStatement(ctx context.Context, r io.Reader, format string) (*ledger.ImportResult, error)
}

// Handler handles POST /v1/import and POST /v1/import/statement.
type Handler struct {
	TransactionService importer
}

func NewHandler(svc importer) *Handler {
	return &Handler{TransactionService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "import-rows",
		Method:      http.MethodPost,
		Path:        "/v1/import",
		Summary:     "Import normalized rows",
		Description: "Reconciles a batch of rows into the ledger in one unit of work. Invalid rows are reported, not fatal.",
		Tags:        []string{"Import"},
	}, h.importRows)

	huma.Register(api, huma.Operation{
		OperationID: "import-statement",
		Method:      http.MethodPost,
		Path:        "/v1/import/statement",
		Summary:     "Import a bank statement",
		Description: "Parses a raw statement in the given format and imports its rows.",
		Tags:        []string{"Import"},
	}, h.importStatement)
}

// toRaw converts wire rows. Malformed values are flagged on the row so the
// importer rejects it with a row warning instead of failing the batch.
func toRaw(rows []Row, bankTag string) []ledger.RawTransaction {
	out := make([]ledger.RawTransaction, len(rows))
	for i, r := range rows {
		raw := ledger.RawTransaction{
			Description:  r.Description,
			AccountLabel: strings.TrimSpace(r.AccountLabel),
			CategoryHint: r.CategoryHint,
			Bank:         bankTag,
		}
		if d, err := time.Parse(dateLayout, r.Date); err == nil {
			raw.Date = d
		} else if r.Date != "" {
			raw.Rejection = fmt.Sprintf("invalid date %q", r.Date)
		}
		if amount, err := decimal.NewFromString(r.Amount); err == nil {
			raw.Amount = amount
		} else if r.Amount != "" && raw.Rejection == "" {
			raw.Rejection = fmt.Sprintf("invalid amount %q", r.Amount)
		}
		if id, err := uuid.FromString(r.AccountID); err == nil {
			raw.AccountID = id
		} else if strings.TrimSpace(r.AccountID) != "" && raw.Rejection == "" {
			raw.Rejection = fmt.Sprintf("invalid accountID %q", r.AccountID)
		}
		out[i] = raw
	}
	return out
}

func fromResult(r *ledger.ImportResult) Result {
	out := Result{
		Imported:        r.Imported,
		Insignificant:   r.Insignificant,
		Transfers:       r.Transfers,
		Paired:          r.Paired,
		Duplicates:      r.Duplicates,
		Rejected:        r.Rejected,
		AccountsCreated: r.AccountsCreated,
		Warnings:        r.Warnings,
	}
	if out.AccountsCreated == nil {
		out.AccountsCreated = []string{}
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	return out
}

func logResult(logData *logging.LogData, r *ledger.ImportResult) {
	logData.AddData("imported", r.Imported)
	logData.AddData("duplicates", r.Duplicates)
	logData.AddData("rejected", r.Rejected)
	logData.AddData("paired", r.Paired)
}

func (h *Handler) importRows(ctx context.Context, input *ImportRowsInput) (*ImportOutput, error) {
	logData := logging.GetLogData(ctx)
	logData.AddData("rowCount", len(input.Body.Rows))

	stopTimer := logData.AddTiming("importMs")
	result, err := h.TransactionService.Import(ctx, toRaw(input.Body.Rows, input.Body.BankTag), input.Body.BankTag)
	stopTimer()
	if err != nil {
		return nil, apierror.New("import failed", err)
	}

	logResult(logData, result)
	return &ImportOutput{Body: fromResult(result)}, nil
}

func (h *Handler) importStatement(ctx context.Context, input *ImportStatementInput) (*ImportOutput, error) {
	logData := logging.GetLogData(ctx)
	logData.AddData("format", input.Body.Format)

	stopTimer := logData.AddTiming("importMs")
	result, err := h.TransactionService.ImportStatement(ctx, strings.NewReader(input.Body.Content), input.Body.Format)
	stopTimer()
	if err != nil {
		return nil, apierror.New("statement import failed", err)
	}

	logResult(logData, result)
	return &ImportOutput{Body: fromResult(result)}, nil
}
