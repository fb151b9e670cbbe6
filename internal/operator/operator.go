package operator

import (
	"context"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/operator/actions"
)

// Operator is the worker that processes items from the queue. Each item runs
// in its own unit of work.
type Operator struct {
	db    ledger.Database
	queue chan ActionItem
}

func NewOperator(db ledger.Database, queue chan ActionItem) *Operator {
	return &Operator{
		db:    db,
		queue: queue,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	// The caller may have given up while the item sat in the queue.
	if err := item.ctx.Err(); err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	uow, err := o.db.Write(item.ctx)
	if err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	err = item.action.Perform(item.ctx, uow)
	if err != nil {
		_ = uow.Rollback(context.WithoutCancel(item.ctx))
		item.response <- ActionItemResponse{err: err}
		return
	}

	if err = uow.Commit(item.ctx); err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	item.response <- ActionItemResponse{}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
