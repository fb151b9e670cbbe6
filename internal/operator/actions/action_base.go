package actions

import (
	"context"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/reconcile"
)

// IAction is one mutating operation. Perform runs inside a unit of work; a
// returned error rolls back everything it wrote. Results are stored on the
// action itself and are only meaningful after a nil error.
type IAction interface {
	Perform(ctx context.Context, store ledger.Store) error
}

var editor reconcile.Editor
