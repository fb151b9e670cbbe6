// Package memory is an in-process implementation of the ledger store.
//
// Rows live in maps keyed by id. A unit of work operates on a private copy
// of the committed state and replaces it on Commit, so uncommitted writes are
// never visible to readers. Only one unit of work is open at a time. The
// same uniqueness and reference rules as the PostgreSQL schema are enforced.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

var (
	// ErrReadOnly is returned by mutating calls on the Read store.
	ErrReadOnly = errors.New("memory: store is read-only")
	// ErrDone is returned when a finished unit of work is used again.
	ErrDone = errors.New("memory: unit of work already finished")
)

type state struct {
	seq           int64
	accounts      map[uuid.UUID]accountRow
	transactions  map[uuid.UUID]transactionRow
	categories    map[uuid.UUID]ledger.Category
	subcategories map[uuid.UUID]ledger.Subcategory
	categoryRules map[uuid.UUID]ledger.CategoryRule
	accountRules  map[uuid.UUID]ledger.AccountRule
}

type accountRow struct {
	seq     int64
	account ledger.Account
}

type transactionRow struct {
	seq int64
	tx  ledger.Transaction
}

func newState() *state {
	return &state{
		accounts:      map[uuid.UUID]accountRow{},
		transactions:  map[uuid.UUID]transactionRow{},
		categories:    map[uuid.UUID]ledger.Category{},
		subcategories: map[uuid.UUID]ledger.Subcategory{},
		categoryRules: map[uuid.UUID]ledger.CategoryRule{},
		accountRules:  map[uuid.UUID]ledger.AccountRule{},
	}
}

// clone copies every table. Rows are values, so the copy shares nothing
// mutable with s except UpdatedAt pointers, which are never written through.
func (s *state) clone() *state {
	return &state{
		seq:           s.seq,
		accounts:      maps.Clone(s.accounts),
		transactions:  maps.Clone(s.transactions),
		categories:    maps.Clone(s.categories),
		subcategories: maps.Clone(s.subcategories),
		categoryRules: maps.Clone(s.categoryRules),
		accountRules:  maps.Clone(s.accountRules),
	}
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

// Database is the in-memory ledger.Database.
type Database struct {
	sem chan struct{}
	now func() time.Time

	mu        sync.RWMutex
	committed *state
}

// New creates an empty database.
func New() *Database {
	return &Database{
		sem:       make(chan struct{}, 1),
		now:       time.Now,
		committed: newState(),
	}
}

// WithClock replaces the time source used for created/updated timestamps.
func (db *Database) WithClock(now func() time.Time) *Database {
	db.now = now
	return db
}

func (db *Database) snapshot() *state {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.committed
}

// Write opens a unit of work, waiting for any other one to finish.
func (db *Database) Write(ctx context.Context) (ledger.UnitOfWork, error) {
	select {
	case db.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	u := &unit{db: db, st: db.snapshot().clone()}
	u.store = store{
		state:    func() *state { return u.st },
		now:      db.now,
		writable: func() error { return u.usable() },
	}
	return u, nil
}

// Read returns a store over the latest committed state.
func (db *Database) Read() ledger.Store {
	return store{
		state:    db.snapshot,
		now:      db.now,
		writable: func() error { return ErrReadOnly },
	}
}

type unit struct {
	store
	db   *Database
	st   *state
	done bool
}

func (u *unit) usable() error {
	if u.done {
		return ErrDone
	}
	return nil
}

func (u *unit) Commit(context.Context) error {
	if u.done {
		return ErrDone
	}
	u.done = true
	u.db.mu.Lock()
	u.db.committed = u.st
	u.db.mu.Unlock()
	<-u.db.sem
	return nil
}

// Rollback discards the unit's writes. Calling it after Commit is a no-op so
// it can be deferred.
func (u *unit) Rollback(context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	<-u.db.sem
	return nil
}

type store struct {
	state    func() *state
	now      func() time.Time
	writable func() error
}

func (s store) Accounts() ledger.IAccountStore         { return accountStore(s) }
func (s store) Transactions() ledger.ITransactionStore { return transactionStore(s) }
func (s store) Rules() ledger.IRuleStore               { return ruleStore(s) }
func (s store) Categories() ledger.ICategoryStore      { return categoryStore(s) }

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// page applies offset and limit; a non-positive limit means no limit.
func page[T any](rows []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(rows) {
			return nil
		}
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
