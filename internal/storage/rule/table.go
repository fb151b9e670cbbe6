package rule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/storage/sqlconfig"
)

const (
	categoryRulesTable = "category_rules"
	accountRulesTable  = "account_rules"
)

type categoryRuleRow struct {
	ID            uuid.UUID `db:"id"`
	Keyword       string    `db:"keyword"`
	CategoryID    uuid.UUID `db:"category_id"`
	SubcategoryID uuid.UUID `db:"subcategory_id"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
}

type accountRuleRow struct {
	ID        uuid.UUID `db:"id"`
	Keyword   string    `db:"keyword"`
	AccountID uuid.UUID `db:"account_id"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

var _ ledger.IRuleStore = (*Table)(nil)

// Table implements ledger.IRuleStore on the category_rules and account_rules
// tables.
type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

func (t *Table) ActiveCategoryRules(ctx context.Context) ([]ledger.CategoryRule, error) {
	q := psql.Select(
		sm.Columns("id", "keyword", "category_id", "subcategory_id", "is_active", "created_at"),
		sm.From(categoryRulesTable),
		sm.Where(psql.Quote("is_active").EQ(psql.Arg(true))),
		sm.OrderBy("keyword").Asc(),
		sm.OrderBy("created_at").Asc(),
	)
	rows, err := bob.All(ctx, t.exec, q, scan.StructMapper[categoryRuleRow]())
	if err != nil {
		return nil, sqlconfig.MapError(err, "category rules")
	}
	out := make([]ledger.CategoryRule, len(rows))
	for i, r := range rows {
		out[i] = ledger.CategoryRule(r)
	}
	return out, nil
}

func (t *Table) ActiveAccountRules(ctx context.Context) ([]ledger.AccountRule, error) {
	q := psql.Select(
		sm.Columns("id", "keyword", "account_id", "is_active", "created_at"),
		sm.From(accountRulesTable),
		sm.Where(psql.Quote("is_active").EQ(psql.Arg(true))),
		sm.OrderBy("keyword").Asc(),
	)
	rows, err := bob.All(ctx, t.exec, q, scan.StructMapper[accountRuleRow]())
	if err != nil {
		return nil, sqlconfig.MapError(err, "account rules")
	}
	out := make([]ledger.AccountRule, len(rows))
	for i, r := range rows {
		out[i] = ledger.AccountRule(r)
	}
	return out, nil
}

func (t *Table) InsertCategoryRule(ctx context.Context, rule *ledger.CategoryRule) (uuid.UUID, error) {
	if strings.TrimSpace(rule.Keyword) == "" {
		return uuid.Nil, ledger.ErrEmptyKeyword
	}
	owner, err := bob.One(ctx, t.exec, psql.Select(
		sm.Columns("category_id"),
		sm.From("subcategories"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(rule.SubcategoryID))),
	), scan.SingleColumnMapper[uuid.UUID])
	if err != nil {
		return uuid.Nil, sqlconfig.MapError(err, "subcategory "+rule.SubcategoryID.String())
	}
	if owner != rule.CategoryID {
		return uuid.Nil, ledger.ErrSubcategoryMismatch
	}

	q := psql.Insert(
		im.Into(categoryRulesTable, "keyword", "category_id", "subcategory_id", "is_active"),
		im.Values(
			psql.Arg(rule.Keyword),
			psql.Arg(rule.CategoryID),
			psql.Arg(rule.SubcategoryID),
			psql.Arg(rule.IsActive),
		),
		im.Returning("id"),
	)
	id, err := bob.One(ctx, t.exec, q, scan.SingleColumnMapper[uuid.UUID])
	if err != nil {
		return uuid.Nil, sqlconfig.MapError(err, fmt.Sprintf("category rule %q", rule.Keyword))
	}
	return id, nil
}

func (t *Table) InsertAccountRule(ctx context.Context, rule *ledger.AccountRule) (uuid.UUID, error) {
	if strings.TrimSpace(rule.Keyword) == "" {
		return uuid.Nil, ledger.ErrEmptyKeyword
	}
	q := psql.Insert(
		im.Into(accountRulesTable, "keyword", "account_id", "is_active"),
		im.Values(
			psql.Arg(rule.Keyword),
			psql.Arg(rule.AccountID),
			psql.Arg(rule.IsActive),
		),
		im.Returning("id"),
	)
	id, err := bob.One(ctx, t.exec, q, scan.SingleColumnMapper[uuid.UUID])
	if err != nil {
		return uuid.Nil, sqlconfig.MapError(err, fmt.Sprintf("account rule %q", rule.Keyword))
	}
	return id, nil
}

func (t *Table) SetAccountRuleActive(ctx context.Context, id uuid.UUID, active bool) error {
	q := psql.Update(
		um.Table(accountRulesTable),
		um.SetCol("is_active").ToArg(active),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return t.execOne(ctx, q, "account rule "+id.String())
}

func (t *Table) DeleteAccountRule(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From(accountRulesTable),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return t.execOne(ctx, q, "account rule "+id.String())
}

// execOne runs q and reports ErrNotFound when no row was touched.
func (t *Table) execOne(ctx context.Context, q bob.Query, what string) error {
	result, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return sqlconfig.MapError(err, what)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ledger.ErrNotFound)
	}
	return nil
}
