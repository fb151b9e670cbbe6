// Package app wires storage, rules, the importer and the operator into the
// service layer. It is shared by the HTTP server and the ledgerctl CLI.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finances-tracker/internal/config"
	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/operator"
	"github.com/carson-networks/finances-tracker/internal/reconcile"
	"github.com/carson-networks/finances-tracker/internal/rules"
	"github.com/carson-networks/finances-tracker/internal/service"
	"github.com/carson-networks/finances-tracker/internal/storage"
	"github.com/carson-networks/finances-tracker/internal/storage/memory"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// App owns the long-lived components of a running process.
type App struct {
	Service *service.Service

	db       ledger.Database
	sql      *storage.Storage
	operator *operator.OperatorDelegator
	log      *logrus.Logger
}

// New opens the configured store and starts the operator workers.
func New(env *config.Config, log *logrus.Logger) (*App, error) {
	a := &App{log: log}

	switch env.StorageDriver {
	case config.StorageDriverMemory:
		a.db = memory.New()
		log.Warn("App.New.memoryStorage")
	default:
		s, err := storage.Open(env)
		if err != nil {
			return nil, fmt.Errorf("opening storage: %w", err)
		}
		status, err := s.Migrate()
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("migrating: %w", err)
		}
		log.WithFields(logrus.Fields{
			"preMigrationVersion":  status.Before,
			"postMigrationVersion": status.After,
		}).Info("App.New.migrated")
		a.sql = s
		a.db = s
	}

	keywords, err := config.LoadKeywords(env.ClassifierKeywordsFile)
	if err != nil {
		a.Close()
		return nil, err
	}

	db := a.db
	ruleCache := rules.NewAccountRuleCache(env.AccountRuleCacheTTL, func(ctx context.Context) ([]ledger.AccountRule, error) {
		return db.Read().Rules().ActiveAccountRules(ctx)
	})
	resolver := reconcile.NewAccountResolver(ruleCache, reconcile.AutoAccountDefaults{
		Currency: env.DefaultCurrency,
		BankName: env.AutoAccountBankName,
	})
	importer := reconcile.NewImporter(resolver, keywords, log)

	a.operator = operator.NewOperatorDelegator(db, env.OperatorWorkers)
	a.operator.Start()

	a.Service = service.NewService(service.Deps{
		DB:        db,
		Operator:  a.operator,
		Importer:  importer,
		RuleCache: ruleCache,
	})
	return a, nil
}

// Pinger returns the SQL store for health checks, or nil for memory storage.
func (a *App) Pinger() pinger {
	if a.sql == nil {
		return nil
	}
	return a.sql
}

// Close stops the workers and releases the database.
func (a *App) Close() {
	if a.operator != nil {
		a.operator.Stop()
	}
	if a.sql != nil {
		if err := a.sql.Close(); err != nil {
			a.log.WithError(err).Error("App.Close.database")
		}
	}
}
