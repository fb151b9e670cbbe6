package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

var _ ledger.UnitOfWork = (*Writer)(nil)

// Writer is a Reader bound to an open transaction.
type Writer struct {
	tx bob.Tx
	*Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx:     tx,
		Reader: NewReader(tx),
	}
}

func (w *Writer) Commit(ctx context.Context) error {
	return w.tx.Commit(ctx)
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.tx.Rollback(ctx)
}
