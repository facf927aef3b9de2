package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/euromarts-io/euromarts/internal/store"
)

// Store is the DuckDB-backed persistence layer. One run writes at a time;
// concurrent writers are not supported.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs the schema DDL.
// An empty path opens an in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb at %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging duckdb: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

var _ store.Store = (*Store)(nil)

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("duckdb migrate: %w", err)
	}
	return nil
}

// EnsureFactColumns adds any fact columns missing from the persisted table.
// Historical rows keep null in columns added after they were written.
func (s *Store) EnsureFactColumns(ctx context.Context, cols []store.Column) error {
	for _, c := range cols {
		stmt := fmt.Sprintf(
			"ALTER TABLE fct_economic_indicators ADD COLUMN IF NOT EXISTS %s %s", c.Name, c.Type)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("adding fact column %s: %w", c.Name, err)
		}
	}
	return nil
}

// Ping verifies the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, committing on success.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
