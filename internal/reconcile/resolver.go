package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/rules"
)

// AutoAccountDefaults describes accounts created for unknown labels.
type AutoAccountDefaults struct {
	Currency string
	BankName string
}

// DefaultAutoAccount returns the defaults used when none are configured.
func DefaultAutoAccount() AutoAccountDefaults {
	return AutoAccountDefaults{Currency: "PLN", BankName: "Import Automatyczny"}
}

// AccountResolver maps a raw account label to an account.
//
// Resolution order, first hit wins: explicit id, exact name, account rule
// keyword contained in the label, and finally a new account named after the
// label.
type AccountResolver struct {
	rules    *rules.AccountRuleCache
	defaults AutoAccountDefaults
}

// NewAccountResolver creates a resolver. ruleCache may be nil, in which case
// the rule step is skipped.
func NewAccountResolver(ruleCache *rules.AccountRuleCache, defaults AutoAccountDefaults) *AccountResolver {
	if defaults.Currency == "" {
		defaults.Currency = DefaultAutoAccount().Currency
	}
	if defaults.BankName == "" {
		defaults.BankName = DefaultAutoAccount().BankName
	}
	return &AccountResolver{rules: ruleCache, defaults: defaults}
}

// Resolution is the outcome of resolving one label.
type Resolution struct {
	AccountID uuid.UUID
	// Created is set when the account was provisioned for this label.
	Created *ledger.Account
}

var errUnresolvable = errors.New("no account label or id")

// Resolve returns the account for label. A missing or unknown explicit id and
// an empty label are rejections, reported as *RowError by the importer.
func (r *AccountResolver) Resolve(ctx context.Context, accounts ledger.IAccountStore, label string, explicitID uuid.UUID) (Resolution, error) {
	if explicitID != uuid.Nil {
		a, err := accounts.FindByID(ctx, explicitID)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{AccountID: a.ID}, nil
	}

	if label == "" {
		return Resolution{}, errUnresolvable
	}

	a, err := accounts.FindByName(ctx, label)
	switch {
	case err == nil:
		return Resolution{AccountID: a.ID}, nil
	case !errors.Is(err, ledger.ErrNotFound):
		return Resolution{}, err
	}

	if r.rules != nil {
		id, ok, err := r.rules.Match(ctx, label)
		if err != nil {
			return Resolution{}, fmt.Errorf("loading account rules: %w", err)
		}
		if ok {
			return Resolution{AccountID: id}, nil
		}
	}

	created, err := accounts.Insert(ctx, &ledger.AccountCreate{
		Name:           label,
		Type:           ledger.AccountTypeCash,
		BankName:       r.defaults.BankName,
		Currency:       r.defaults.Currency,
		InitialBalance: decimal.Zero,
	})
	if err != nil {
		return Resolution{}, fmt.Errorf("creating account %q: %w", label, err)
	}
	return Resolution{AccountID: created.ID, Created: created}, nil
}
