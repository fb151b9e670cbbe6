package sqlconfig

import (
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
)

// Args converts a typed slice for psql.Arg.
func Args[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// AppendWhere adds the conditions, joined with AND, as one where clause.
func AppendWhere(queryMods []bob.Mod[*dialect.SelectQuery], conditions []bob.Expression) []bob.Mod[*dialect.SelectQuery] {
	switch len(conditions) {
	case 0:
		return queryMods
	case 1:
		return append(queryMods, sm.Where(conditions[0]))
	default:
		return append(queryMods, sm.Where(psql.And(conditions...)))
	}
}

// AppendPage adds limit and offset. Non-positive values are omitted.
func AppendPage(queryMods []bob.Mod[*dialect.SelectQuery], limit, offset int) []bob.Mod[*dialect.SelectQuery] {
	if limit > 0 {
		queryMods = append(queryMods, sm.Limit(limit))
	}
	if offset > 0 {
		queryMods = append(queryMods, sm.Offset(offset))
	}
	return queryMods
}
