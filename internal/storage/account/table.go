package account

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/storage/sqlconfig"
)

const tableName = "accounts"

var columns = []any{
	"id", "name", "type", "bank_name", "import_identifier",
	"currency", "initial_balance", "is_active", "created_at",
}

type accountRow struct {
	ID               uuid.UUID       `db:"id"`
	Name             string          `db:"name"`
	Type             int16           `db:"type"`
	BankName         string          `db:"bank_name"`
	ImportIdentifier string          `db:"import_identifier"`
	Currency         string          `db:"currency"`
	InitialBalance   decimal.Decimal `db:"initial_balance"`
	IsActive         bool            `db:"is_active"`
	CreatedAt        time.Time       `db:"created_at"`
}

func (r accountRow) toAccount() *ledger.Account {
	return &ledger.Account{
		ID:               r.ID,
		Name:             r.Name,
		Type:             ledger.AccountType(r.Type),
		BankName:         r.BankName,
		ImportIdentifier: r.ImportIdentifier,
		Currency:         r.Currency,
		InitialBalance:   r.InitialBalance,
		IsActive:         r.IsActive,
		CreatedAt:        r.CreatedAt,
	}
}

var _ ledger.IAccountStore = (*Table)(nil)

// Table implements ledger.IAccountStore on the accounts table.
type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

func selectAccounts(queryMods ...bob.Mod[*dialect.SelectQuery]) bob.BaseQuery[*dialect.SelectQuery] {
	base := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
	}
	return psql.Select(append(base, queryMods...)...)
}

func (t *Table) one(ctx context.Context, q bob.Query, what string) (*ledger.Account, error) {
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[accountRow]())
	if err != nil {
		return nil, sqlconfig.MapError(err, what)
	}
	return row.toAccount(), nil
}

func (t *Table) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	q := selectAccounts(sm.Where(psql.Quote("id").EQ(psql.Arg(id))))
	return t.one(ctx, q, "account "+id.String())
}

// FindByName returns the earliest created account with exactly this name.
func (t *Table) FindByName(ctx context.Context, name string) (*ledger.Account, error) {
	q := selectAccounts(
		sm.Where(psql.Quote("name").EQ(psql.Arg(name))),
		sm.OrderBy("created_at").Asc(),
		sm.OrderBy("id").Asc(),
		sm.Limit(1),
	)
	return t.one(ctx, q, "account "+name)
}

func (t *Table) Insert(ctx context.Context, create *ledger.AccountCreate) (*ledger.Account, error) {
	q := psql.Insert(
		im.Into(tableName, "name", "type", "bank_name", "import_identifier", "currency", "initial_balance"),
		im.Values(
			psql.Arg(create.Name),
			psql.Arg(int16(create.Type)),
			psql.Arg(create.BankName),
			psql.Arg(create.ImportIdentifier),
			psql.Arg(create.Currency),
			psql.Arg(ledger.RoundAmount(create.InitialBalance)),
		),
		im.Returning(columns...),
	)
	return t.one(ctx, q, "account "+create.Name)
}

func (t *Table) List(ctx context.Context, filter *ledger.AccountFilter) ([]*ledger.Account, error) {
	if filter == nil {
		filter = &ledger.AccountFilter{}
	}
	var conditions []bob.Expression
	if filter.OnlyActive {
		conditions = append(conditions, psql.Quote("is_active").EQ(psql.Arg(true)))
	}
	queryMods := sqlconfig.AppendWhere(nil, conditions)
	queryMods = append(queryMods,
		sm.OrderBy("name").Asc(),
		sm.OrderBy("created_at").Asc(),
	)
	queryMods = sqlconfig.AppendPage(queryMods, filter.Limit, filter.Offset)

	rows, err := bob.All(ctx, t.exec, selectAccounts(queryMods...), scan.StructMapper[accountRow]())
	if err != nil {
		return nil, sqlconfig.MapError(err, "accounts")
	}
	result := make([]*ledger.Account, len(rows))
	for i, row := range rows {
		result[i] = row.toAccount()
	}
	return result, nil
}

func (t *Table) ImportIdentifiers(ctx context.Context) ([]string, error) {
	q := psql.Select(
		sm.Columns("import_identifier"),
		sm.From(tableName),
		sm.Where(psql.Quote("import_identifier").NE(psql.Arg(""))),
		sm.OrderBy("import_identifier").Asc(),
	)
	ids, err := bob.All(ctx, t.exec, q, scan.SingleColumnMapper[string])
	if err != nil {
		return nil, sqlconfig.MapError(err, "account identifiers")
	}
	return ids, nil
}
