package transaction

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/storage/sqlconfig"
)

const tableName = "transactions"

var columns = []any{
	"id", "date", "description", "amount", "account_id", "category_id",
	"subcategory_id", "month_number", "year", "is_insignificant", "is_transfer",
	"bank_name", "related_transaction_id", "created_at", "updated_at",
}

type transactionRow struct {
	ID                   uuid.UUID       `db:"id"`
	Date                 time.Time       `db:"date"`
	Description          string          `db:"description"`
	Amount               decimal.Decimal `db:"amount"`
	AccountID            uuid.UUID       `db:"account_id"`
	CategoryID           uuid.NullUUID   `db:"category_id"`
	SubcategoryID        uuid.NullUUID   `db:"subcategory_id"`
	MonthNumber          int             `db:"month_number"`
	Year                 int             `db:"year"`
	IsInsignificant      bool            `db:"is_insignificant"`
	IsTransfer           bool            `db:"is_transfer"`
	BankName             string          `db:"bank_name"`
	RelatedTransactionID uuid.NullUUID   `db:"related_transaction_id"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            sql.NullTime    `db:"updated_at"`
}

func (r transactionRow) toTransaction() *ledger.Transaction {
	t := &ledger.Transaction{
		ID:                   r.ID,
		Description:          r.Description,
		Amount:               r.Amount,
		AccountID:            r.AccountID,
		CategoryID:           r.CategoryID,
		SubcategoryID:        r.SubcategoryID,
		IsInsignificant:      r.IsInsignificant,
		IsTransfer:           r.IsTransfer,
		BankName:             r.BankName,
		RelatedTransactionID: r.RelatedTransactionID,
		CreatedAt:            r.CreatedAt,
	}
	// DATE columns can come back in the session zone.
	t.SetDate(r.Date)
	if r.UpdatedAt.Valid {
		updated := r.UpdatedAt.Time
		t.UpdatedAt = &updated
	}
	return t
}

var _ ledger.ITransactionStore = (*Table)(nil)

// Table implements ledger.ITransactionStore on the transactions table.
type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

func selectTransactions(queryMods ...bob.Mod[*dialect.SelectQuery]) bob.BaseQuery[*dialect.SelectQuery] {
	base := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
	}
	return psql.Select(append(base, queryMods...)...)
}

func (t *Table) one(ctx context.Context, q bob.Query, what string) (*ledger.Transaction, error) {
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, sqlconfig.MapError(err, what)
	}
	return row.toTransaction(), nil
}

func (t *Table) all(ctx context.Context, q bob.Query) ([]*ledger.Transaction, error) {
	rows, err := bob.All(ctx, t.exec, q, scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, sqlconfig.MapError(err, "transactions")
	}
	result := make([]*ledger.Transaction, len(rows))
	for i, row := range rows {
		result[i] = row.toTransaction()
	}
	return result, nil
}

func (t *Table) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	q := selectTransactions(sm.Where(psql.Quote("id").EQ(psql.Arg(id))))
	return t.one(ctx, q, "transaction "+id.String())
}

func (t *Table) findForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	q := selectTransactions(
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.ForUpdate(),
	)
	return t.one(ctx, q, "transaction "+id.String())
}

func (t *Table) Exists(ctx context.Context, key ledger.DuplicateKey) (bool, error) {
	q := psql.Select(
		sm.Columns("id"),
		sm.From(tableName),
		sm.Where(psql.And(
			psql.Quote("description").EQ(psql.Arg(key.Description)),
			psql.Quote("date").EQ(psql.Arg(ledger.DateOnly(key.Date))),
			psql.Quote("amount").EQ(psql.Arg(ledger.RoundAmount(key.Amount))),
			psql.Quote("account_id").EQ(psql.Arg(key.AccountID)),
		)),
		sm.Limit(1),
	)
	ids, err := bob.All(ctx, t.exec, q, scan.SingleColumnMapper[uuid.UUID])
	if err != nil {
		return false, sqlconfig.MapError(err, "duplicate check")
	}
	return len(ids) > 0, nil
}

func (t *Table) Insert(ctx context.Context, create *ledger.TransactionCreate) (*ledger.Transaction, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generating transaction id: %w", err)
	}
	tx := ledger.NewTransaction(id, create, time.Now())

	q := psql.Insert(
		im.Into(tableName,
			"id", "date", "description", "amount", "account_id", "category_id",
			"subcategory_id", "month_number", "year", "is_insignificant",
			"is_transfer", "bank_name",
		),
		im.Values(
			psql.Arg(tx.ID),
			psql.Arg(tx.Date),
			psql.Arg(tx.Description),
			psql.Arg(tx.Amount),
			psql.Arg(tx.AccountID),
			psql.Arg(tx.CategoryID),
			psql.Arg(tx.SubcategoryID),
			psql.Arg(tx.MonthNumber),
			psql.Arg(tx.Year),
			psql.Arg(tx.IsInsignificant),
			psql.Arg(tx.IsTransfer),
			psql.Arg(tx.BankName),
		),
		im.Returning(columns...),
	)
	return t.one(ctx, q, fmt.Sprintf("transaction %q on %s", tx.Description, tx.Date.Format(time.DateOnly)))
}

// Update writes every mutable column of tx and refreshes it from the stored
// row. The pair link and created_at are left alone.
func (t *Table) Update(ctx context.Context, tx *ledger.Transaction) error {
	tx.SetDate(tx.Date)
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("date").ToArg(tx.Date),
		um.SetCol("description").ToArg(tx.Description),
		um.SetCol("amount").ToArg(ledger.RoundAmount(tx.Amount)),
		um.SetCol("account_id").ToArg(tx.AccountID),
		um.SetCol("category_id").ToArg(tx.CategoryID),
		um.SetCol("subcategory_id").ToArg(tx.SubcategoryID),
		um.SetCol("month_number").ToArg(tx.MonthNumber),
		um.SetCol("year").ToArg(tx.Year),
		um.SetCol("is_insignificant").ToArg(tx.IsInsignificant),
		um.SetCol("is_transfer").ToArg(tx.IsTransfer),
		um.SetCol("bank_name").ToArg(tx.BankName),
		um.SetCol("updated_at").To(psql.Raw("now()")),
		um.Where(psql.Quote("id").EQ(psql.Arg(tx.ID))),
		um.Returning(columns...),
	)
	updated, err := t.one(ctx, q, "transaction "+tx.ID.String())
	if err != nil {
		return err
	}
	*tx = *updated
	return nil
}

func (t *Table) Link(ctx context.Context, a, b uuid.UUID) error {
	if a == b {
		return fmt.Errorf("link %s to itself: %w", a, ledger.ErrConflict)
	}
	for _, id := range []uuid.UUID{a, b} {
		row, err := t.findForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if row.IsPaired() {
			return fmt.Errorf("link %s and %s: %w", a, b, ledger.ErrAlreadyPaired)
		}
	}

	q := psql.Update(
		um.Table(tableName),
		um.SetCol("related_transaction_id").To(
			psql.Raw("CASE WHEN id = ? THEN ?::uuid ELSE ?::uuid END", a, b, a),
		),
		um.Where(psql.Quote("id").In(psql.Arg(a, b))),
	)
	if _, err := bob.Exec(ctx, t.exec, q); err != nil {
		return sqlconfig.MapError(err, fmt.Sprintf("link %s and %s", a, b))
	}
	return nil
}

// Delete removes every id or reports ErrNotFound. The foreign key clears links
// pointing at removed rows.
func (t *Table) Delete(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	q := psql.Delete(
		dm.From(tableName),
		dm.Where(psql.Quote("id").In(psql.Arg(sqlconfig.Args(ids)...))),
	)
	result, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return sqlconfig.MapError(err, "delete transactions")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	if int(affected) != len(ids) {
		return fmt.Errorf("delete transactions: %d of %d found: %w", affected, len(ids), ledger.ErrNotFound)
	}
	return nil
}

// ListUnpairedTransfers locks the candidates it returns so two writers cannot
// pair the same leg.
func (t *Table) ListUnpairedTransfers(ctx context.Context, query *ledger.UnpairedQuery) ([]*ledger.Transaction, error) {
	conditions := []bob.Expression{
		psql.Quote("is_transfer").EQ(psql.Arg(true)),
		psql.Quote("related_transaction_id").IsNull(),
		psql.Quote("amount").EQ(psql.Arg(ledger.RoundAmount(query.Amount))),
		psql.Quote("account_id").NE(psql.Arg(query.ExcludeAccountID)),
		psql.Quote("date").GTE(psql.Arg(ledger.DateOnly(query.From))),
		psql.Quote("date").LTE(psql.Arg(ledger.DateOnly(query.To))),
	}
	if len(query.ExcludeIDs) > 0 {
		conditions = append(conditions, psql.Quote("id").NotIn(psql.Arg(sqlconfig.Args(query.ExcludeIDs)...)))
	}

	queryMods := sqlconfig.AppendWhere(nil, conditions)
	queryMods = append(queryMods,
		sm.OrderBy("date").Asc(),
		sm.OrderBy("seq").Asc(),
		sm.ForUpdate(),
	)
	return t.all(ctx, selectTransactions(queryMods...))
}

// List returns matching rows, newest date first.
func (t *Table) List(ctx context.Context, filter *ledger.TransactionFilter) ([]*ledger.Transaction, error) {
	if filter == nil {
		filter = &ledger.TransactionFilter{}
	}
	queryMods := sqlconfig.AppendWhere(nil, filterConditions(filter))
	queryMods = append(queryMods,
		sm.OrderBy("date").Desc(),
		sm.OrderBy("seq").Desc(),
	)
	queryMods = sqlconfig.AppendPage(queryMods, filter.Limit, filter.Offset)
	return t.all(ctx, selectTransactions(queryMods...))
}

func filterConditions(f *ledger.TransactionFilter) []bob.Expression {
	var conditions []bob.Expression
	if f.Year != nil {
		conditions = append(conditions, psql.Quote("year").EQ(psql.Arg(*f.Year)))
	}
	if f.Month != nil {
		conditions = append(conditions, psql.Quote("month_number").EQ(psql.Arg(*f.Month)))
	}
	if f.AccountID != nil {
		conditions = append(conditions, psql.Quote("account_id").EQ(psql.Arg(*f.AccountID)))
	}
	if f.CategoryID != nil {
		conditions = append(conditions, psql.Quote("category_id").EQ(psql.Arg(*f.CategoryID)))
	}
	if f.HasNoCategory {
		conditions = append(conditions, psql.Quote("category_id").IsNull())
	}
	if f.HideTransfers {
		conditions = append(conditions, psql.Quote("is_transfer").EQ(psql.Arg(false)))
	}
	switch {
	case f.IsInsignificant != nil:
		conditions = append(conditions, psql.Quote("is_insignificant").EQ(psql.Arg(*f.IsInsignificant)))
	case !f.IncludeInsignificant:
		conditions = append(conditions, psql.Quote("is_insignificant").EQ(psql.Arg(false)))
	}
	if f.MinAmount != nil {
		conditions = append(conditions, psql.Quote("amount").GTE(psql.Arg(*f.MinAmount)))
	}
	if f.MaxAmount != nil {
		conditions = append(conditions, psql.Quote("amount").LTE(psql.Arg(*f.MaxAmount)))
	}
	if f.SearchTerm != "" {
		conditions = append(conditions, psql.Raw("strpos(lower(description), lower(?)) > 0", f.SearchTerm))
	}
	return conditions
}
