package category

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/storage/sqlconfig"
)

type categoryRow struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
}

type subcategoryRow struct {
	ID         uuid.UUID `db:"id"`
	CategoryID uuid.UUID `db:"category_id"`
	Name       string    `db:"name"`
}

var _ ledger.ICategoryStore = (*Table)(nil)

// Table implements ledger.ICategoryStore on the categories and subcategories
// tables.
type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

func (t *Table) InsertCategory(ctx context.Context, name string) (uuid.UUID, error) {
	q := psql.Insert(
		im.Into("categories", "name"),
		im.Values(psql.Arg(name)),
		im.Returning("id"),
	)
	id, err := bob.One(ctx, t.exec, q, scan.SingleColumnMapper[uuid.UUID])
	if err != nil {
		return uuid.Nil, sqlconfig.MapError(err, "category "+name)
	}
	return id, nil
}

func (t *Table) InsertSubcategory(ctx context.Context, categoryID uuid.UUID, name string) (uuid.UUID, error) {
	q := psql.Insert(
		im.Into("subcategories", "category_id", "name"),
		im.Values(psql.Arg(categoryID), psql.Arg(name)),
		im.Returning("id"),
	)
	id, err := bob.One(ctx, t.exec, q, scan.SingleColumnMapper[uuid.UUID])
	if err != nil {
		return uuid.Nil, sqlconfig.MapError(err, "subcategory "+name)
	}
	return id, nil
}

func (t *Table) FindSubcategory(ctx context.Context, id uuid.UUID) (*ledger.Subcategory, error) {
	q := psql.Select(
		sm.Columns("id", "category_id", "name"),
		sm.From("subcategories"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[subcategoryRow]())
	if err != nil {
		return nil, sqlconfig.MapError(err, "subcategory "+id.String())
	}
	sub := ledger.Subcategory(row)
	return &sub, nil
}

func (t *Table) ListCategories(ctx context.Context) ([]ledger.Category, error) {
	q := psql.Select(
		sm.Columns("id", "name"),
		sm.From("categories"),
		sm.OrderBy("name").Asc(),
	)
	rows, err := bob.All(ctx, t.exec, q, scan.StructMapper[categoryRow]())
	if err != nil {
		return nil, sqlconfig.MapError(err, "categories")
	}
	out := make([]ledger.Category, len(rows))
	for i, r := range rows {
		out[i] = ledger.Category(r)
	}
	return out, nil
}
