package service

import (
	"context"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/operator/actions"
	"github.com/carson-networks/finances-tracker/internal/parser"
	"github.com/carson-networks/finances-tracker/internal/reconcile"
	"github.com/carson-networks/finances-tracker/internal/rules"
)

// processor runs a mutating action in its own unit of work.
type processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Account     *AccountService
	Rule        *RuleService
}

// Deps are the collaborators shared by the services.
type Deps struct {
	// DB serves reads; writes go through Operator.
	DB        ledger.Database
	Operator  processor
	Importer  *reconcile.Importer
	Parsers   *parser.Registry
	RuleCache *rules.AccountRuleCache
}

// NewService creates a new Service with the given dependencies.
func NewService(deps Deps) *Service {
	if deps.Parsers == nil {
		deps.Parsers = parser.DefaultRegistry()
	}
	return &Service{
		Transaction: NewTransactionService(deps.DB, deps.Operator, deps.Importer, deps.Parsers),
		Account:     NewAccountService(deps.DB, deps.Operator),
		Rule:        NewRuleService(deps.Operator, deps.RuleCache),
	}
}
