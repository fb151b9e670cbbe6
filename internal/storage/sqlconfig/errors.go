// Package sqlconfig holds the SQL helpers shared by the per-table stores.
package sqlconfig

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// sqlState extracts the SQLSTATE code from a lib/pq or pgx error.
func sqlState(err error) (string, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// MapError translates driver errors into ledger sentinels. what names the
// record in the message.
func MapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ledger.ErrNotFound)
	}
	switch code, constraint := sqlState(err); code {
	case codeUniqueViolation:
		if constraint == "transactions_related_transaction_id_key" {
			return fmt.Errorf("%s: %w: %w", what, ledger.ErrAlreadyPaired, err)
		}
		return fmt.Errorf("%s: %w: %w", what, ledger.ErrConflict, err)
	case codeForeignKeyViolation:
		return fmt.Errorf("%s: referenced record: %w: %w", what, ledger.ErrNotFound, err)
	case codeCheckViolation:
		return fmt.Errorf("%s: %w: %w", what, ledger.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}
