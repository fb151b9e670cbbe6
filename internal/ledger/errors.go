package ledger

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflicts with an existing record")
	ErrAlreadyPaired       = errors.New("transaction is already paired")
	ErrSameAccount         = errors.New("source and target account must differ")
	ErrInvalidAmount       = errors.New("amount must be non-zero")
	ErrSubcategoryMismatch = errors.New("subcategory does not belong to category")
	ErrEmptyKeyword        = errors.New("keyword must not be empty")
)
