package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/operator/actions"
	"github.com/carson-networks/finances-tracker/internal/parser"
	"github.com/carson-networks/finances-tracker/internal/reconcile"
)

const defaultLimit = 20

var ErrUnknownFormat = errors.New("unknown statement format")

// TransactionService handles transaction business logic.
type TransactionService struct {
	db       ledger.Database
	operator processor
	importer *reconcile.Importer
	parsers  *parser.Registry
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(db ledger.Database, op processor, importer *reconcile.Importer, parsers *parser.Registry) *TransactionService {
	return &TransactionService{
		db:       db,
		operator: op,
		importer: importer,
		parsers:  parsers,
	}
}

// Import reconciles a batch of raw rows in one unit of work.
func (s *TransactionService) Import(ctx context.Context, rows []ledger.RawTransaction, bankTag string) (*ledger.ImportResult, error) {
	action := &actions.ImportBatch{
		Importer: s.importer,
		Rows:     rows,
		BankTag:  bankTag,
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Result, nil
}

// ParseStatement reads a whole statement with the parser registered for
// format. Malformed rows are skipped by the parser.
func (s *TransactionService) ParseStatement(r io.Reader, format string) ([]ledger.RawTransaction, parser.Parser, error) {
	p := s.parsers.Get(format)
	if p == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	rows, err := parser.Collect(p.Parse(r))
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s statement: %w", p.Format(), err)
	}
	return rows, p, nil
}

// ImportStatement parses a statement file and imports its rows.
func (s *TransactionService) ImportStatement(ctx context.Context, r io.Reader, format string) (*ledger.ImportResult, error) {
	rows, p, err := s.ParseStatement(r, format)
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, rows, p.Format())
}

// CreateTransfer records a linked pair moving |amount| from source to target.
func (s *TransactionService) CreateTransfer(ctx context.Context, req ledger.TransferRequest) (*ledger.Transaction, *ledger.Transaction, error) {
	action := &actions.CreateTransfer{Request: req}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, nil, err
	}
	return action.Source, action.Target, nil
}

// CreateTransaction records a manual entry.
func (s *TransactionService) CreateTransaction(ctx context.Context, create ledger.TransactionCreate) (*ledger.Transaction, error) {
	action := &actions.CreateTransaction{Create: create}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Created, nil
}

// UpdateTransaction applies patch; a paired sibling is kept in step.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id uuid.UUID, patch ledger.TransactionPatch) (*ledger.Transaction, error) {
	action := &actions.UpdateTransaction{ID: id, Patch: patch}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Updated, nil
}

// DeleteTransaction deletes a transaction and its sibling, returning the ids
// removed.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	action := &actions.DeleteTransaction{ID: id}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Deleted, nil
}

func (s *TransactionService) ToggleInsignificant(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	action := &actions.ToggleInsignificant{ID: id}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Updated, nil
}

// ListTransactions returns a page of matching transactions, newest first.
// Limit and Offset on filter are replaced by the cursor.
func (s *TransactionService) ListTransactions(ctx context.Context, filter ledger.TransactionFilter, cursor *TransactionCursor) ([]*ledger.Transaction, *TransactionCursor, error) {
	limit := defaultLimit
	offset := 0
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
	}

	filter.Limit = limit + 1
	filter.Offset = offset

	rows, err := s.db.Read().Transactions().List(ctx, &filter)
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &TransactionCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}

	return rows, nextCursor, nil
}

// Summary aggregates income and expenses per category for a year or month.
func (s *TransactionService) Summary(ctx context.Context, query SummaryQuery) (*Summary, error) {
	store := s.db.Read()
	year := query.Year
	txs, err := store.Transactions().List(ctx, &ledger.TransactionFilter{
		Year:                 &year,
		Month:                query.Month,
		IncludeInsignificant: query.IncludeInsignificant,
	})
	if err != nil {
		return nil, err
	}
	categories, err := store.Categories().ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	groups := map[uuid.NullUUID]*CategorySummary{}
	summary := &Summary{}
	for _, t := range txs {
		g, ok := groups[t.CategoryID]
		if !ok {
			g = &CategorySummary{CategoryID: t.CategoryID, CategoryName: UncategorizedName}
			if t.CategoryID.Valid {
				g.CategoryName = names[t.CategoryID.UUID]
			}
			groups[t.CategoryID] = g
		}
		g.Total = g.Total.Add(t.Amount)
		switch t.Amount.Sign() {
		case 1:
			g.Income = g.Income.Add(t.Amount)
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
		case -1:
			g.Expenses = g.Expenses.Add(t.Amount)
			summary.TotalExpenses = summary.TotalExpenses.Add(t.Amount)
		}
	}

	summary.Balance = summary.TotalIncome.Add(summary.TotalExpenses)
	summary.TotalExpenses = summary.TotalExpenses.Abs()
	summary.Categories = make([]CategorySummary, 0, len(groups))
	for _, g := range groups {
		summary.Categories = append(summary.Categories, *g)
	}
	slices.SortFunc(summary.Categories, func(a, b CategorySummary) int {
		return cmp.Or(
			compareBool(a.CategoryID.Valid, b.CategoryID.Valid),
			cmp.Compare(a.CategoryName, b.CategoryName),
		)
	})
	return summary, nil
}

// compareBool orders true before false.
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}
