// Package apierror maps ledger and service errors onto HTTP statuses.
package apierror

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/service"
)

// Status returns the HTTP status for err.
func Status(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrConflict), errors.Is(err, ledger.ErrAlreadyPaired):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrSameAccount),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrSubcategoryMismatch),
		errors.Is(err, ledger.ErrEmptyKeyword),
		errors.Is(err, service.ErrUnknownFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// New wraps err in a huma error whose status follows Status.
func New(msg string, err error) huma.StatusError {
	return huma.NewError(Status(err), msg, err)
}
