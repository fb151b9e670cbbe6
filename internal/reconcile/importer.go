package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finances-tracker/internal/classify"
	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/rules"
)

// Importer turns raw statement rows into ledger transactions.
//
// Import must run inside a unit of work. Per-row rejections and duplicates
// are reported in the result; any other error means the caller has to roll
// the unit back.
type Importer struct {
	resolver   *AccountResolver
	keywords   classify.Keywords
	duplicates DuplicateFilter
	pairer     Pairer
	log        *logrus.Logger
}

func NewImporter(resolver *AccountResolver, keywords classify.Keywords, log *logrus.Logger) *Importer {
	return &Importer{
		resolver: resolver,
		keywords: keywords.WithDefaults(),
		log:      log,
	}
}

type batchContext struct {
	store      ledger.Store
	bankTag    string
	classifier *classify.Classifier
	categories *rules.CategoryMatcher
	result     *ledger.ImportResult
}

// Import processes rows strictly in order, then pairs the transfers of the
// batch once all rows are persisted.
func (im *Importer) Import(ctx context.Context, store ledger.Store, rows []ledger.RawTransaction, bankTag string) (*ledger.ImportResult, error) {
	identifiers, err := store.Accounts().ImportIdentifiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading account identifiers: %w", err)
	}
	categoryRules, err := store.Rules().ActiveCategoryRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading category rules: %w", err)
	}

	batch := &batchContext{
		store:      store,
		bankTag:    bankTag,
		classifier: classify.New(im.keywords, identifiers),
		categories: rules.NewCategoryMatcher(categoryRules),
		result:     &ledger.ImportResult{},
	}

	persisted := make([]*ledger.Transaction, 0, len(rows))
	for i := range rows {
		t, err := im.importRow(ctx, batch, i+1, &rows[i])
		var rowErr *RowError
		if errors.As(err, &rowErr) {
			batch.result.Rejected++
			batch.result.Warnings = append(batch.result.Warnings, rowErr.Error())
			im.log.WithField("row", rowErr.Row).WithField("reason", rowErr.Reason).Debug("Importer.Import.rowRejected")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if t != nil {
			persisted = append(persisted, t)
		}
	}

	pairs, err := im.pairer.Pair(ctx, store.Transactions(), persisted)
	if err != nil {
		return nil, err
	}
	batch.result.Paired = pairs

	im.log.WithFields(logrus.Fields{
		"bank":          bankTag,
		"rows":          len(rows),
		"imported":      batch.result.Imported,
		"insignificant": batch.result.Insignificant,
		"paired":        pairs,
		"warnings":      len(batch.result.Warnings),
	}).Info("Importer.Import.complete")

	return batch.result, nil
}

// importRow returns the persisted transaction, nil for a duplicate, or an
// error. *RowError values are rejections.
func (im *Importer) importRow(ctx context.Context, b *batchContext, n int, raw *ledger.RawTransaction) (*ledger.Transaction, error) {
	switch {
	case raw.Rejection != "":
		return nil, rejectRow(n, "%s", raw.Rejection)
	case raw.Date.IsZero():
		return nil, rejectRow(n, "missing date")
	case strings.TrimSpace(raw.Description) == "":
		return nil, rejectRow(n, "missing description")
	case raw.Amount.IsZero():
		return nil, rejectRow(n, "amount is zero")
	}

	res, err := im.resolver.Resolve(ctx, b.store.Accounts(), raw.AccountLabel, raw.AccountID)
	switch {
	case errors.Is(err, errUnresolvable):
		return nil, rejectRow(n, "cannot resolve account: no account label given")
	case raw.AccountID != uuid.Nil && errors.Is(err, ledger.ErrNotFound):
		return nil, rejectRow(n, "account %s does not exist", raw.AccountID)
	case err != nil:
		return nil, err
	}
	if res.Created != nil {
		b.result.AccountsCreated = append(b.result.AccountsCreated, res.Created.Name)
		im.log.WithField("account", res.Created.Name).Info("Importer.Import.accountCreated")
	}

	key := ledger.DuplicateKey{
		Description: raw.Description,
		Date:        raw.Date,
		Amount:      raw.Amount,
		AccountID:   res.AccountID,
	}
	dup, err := im.duplicates.IsDuplicate(ctx, b.store.Transactions(), key)
	if err != nil {
		return nil, err
	}
	if dup {
		b.result.Duplicates++
		b.result.Warnings = append(b.result.Warnings, fmt.Sprintf("row %d: duplicate of %q on %s, skipped",
			n, raw.Description, ledger.DateOnly(raw.Date).Format("2006-01-02")))
		return nil, nil
	}

	flags := b.classifier.Classify(raw.Description)
	categoryID, subcategoryID := b.categories.Match(raw.Description)

	bank := b.bankTag
	if bank == "" {
		bank = raw.Bank
	}
	t, err := b.store.Transactions().Insert(ctx, &ledger.TransactionCreate{
		Date:            raw.Date,
		Description:     raw.Description,
		Amount:          raw.Amount,
		AccountID:       res.AccountID,
		CategoryID:      categoryID,
		SubcategoryID:   subcategoryID,
		IsInsignificant: flags.Insignificant,
		IsTransfer:      flags.Transfer,
		BankName:        bank,
	})
	if err != nil {
		return nil, err
	}

	b.result.Imported++
	if t.IsInsignificant {
		b.result.Insignificant++
	}
	if t.IsTransfer {
		b.result.Transfers++
	}
	return t, nil
}
