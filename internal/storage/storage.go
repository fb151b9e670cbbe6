package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finances-tracker/internal/config"
	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/migrations"
)

var _ ledger.Database = (*Storage)(nil)

type Storage struct {
	DB    bob.DB
	sqlDB *sql.DB
}

// Open connects with the configured database/sql driver. The pool is lazy, so
// a bad address surfaces on first use.
func Open(env *config.Config) (*Storage, error) {
	driver := env.DBDriver
	if driver == "" {
		driver = config.DBDriverPostgres
	}
	db, err := sql.Open(driver, env.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", driver, err)
	}
	return NewStorage(db), nil
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		DB:    bob.NewDB(db),
		sqlDB: db,
	}
}

// Write begins a transaction. The caller must Commit or Rollback it.
func (s *Storage) Write(ctx context.Context) (ledger.UnitOfWork, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return NewWriter(tx), nil
}

func (s *Storage) Read() ledger.Store {
	return NewReader(s.DB)
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.sqlDB.Close()
}

// MigrationStatus reports the schema version before and after Migrate.
type MigrationStatus struct {
	Before uint
	After  uint
}

// Migrate applies every embedded migration that has not run yet.
func (s *Storage) Migrate() (MigrationStatus, error) {
	var status MigrationStatus

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return status, fmt.Errorf("opening embedded migrations: %w", err)
	}
	driver, err := postgres.WithInstance(s.sqlDB, &postgres.Config{})
	if err != nil {
		return status, fmt.Errorf("postgres.WithInstance: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return status, fmt.Errorf("migrate.NewWithInstance: %w", err)
	}

	status.Before, _, err = m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return status, fmt.Errorf("reading schema version: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return status, fmt.Errorf("applying migrations: %w", err)
	}

	status.After, _, err = m.Version()
	if err != nil {
		return status, fmt.Errorf("reading schema version: %w", err)
	}
	return status, nil
}
