// Package store persists accounts in a relational database. It targets
// MySQL in production and also speaks SQLite (embedded/local) and Postgres;
// one set of ? placeholder queries serves all three via sqlx.Rebind.
//
// No raw driver error crosses the store boundary: every driver-level failure
// is wrapped in *Error with the failing operation and a readable message.
package store

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/bankbook-dev/bankbook/internal/config"
)

// Error wraps a driver-level failure behind the store boundary.
type Error struct {
	Op  string // the store operation that failed
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func driverErr(op string, err error) error {
	return &Error{Op: op, Err: err}
}

// Store is a handle to the accounts database. Construct one with Open, pass
// it by reference, and Close it when done; there is no ambient instance.
type Store struct {
	db *sqlx.DB
}

// Open connects to the database described by cfg. The pool size bounds
// concurrent connections; each operation checks a connection out of the pool
// and returns it on every exit path.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	db, err := sqlx.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, driverErr("open", err)
	}
	if cfg.PoolSize > 0 {
		db.SetMaxOpenConns(cfg.PoolSize)
		db.SetMaxIdleConns(cfg.PoolSize)
	}
	return &Store{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    account_no   BIGINT PRIMARY KEY,
    last_name    VARCHAR(100) NOT NULL,
    middle_name  VARCHAR(100) NOT NULL,
    first_name   VARCHAR(100) NOT NULL,
    balance      DECIMAL(14,2) NOT NULL,
    opened_date  VARCHAR(10),
    place        VARCHAR(200) NOT NULL DEFAULT '',
    account_type VARCHAR(10) NOT NULL,
    credit_limit DECIMAL(14,2) NOT NULL DEFAULT 0
)`

// Init creates the accounts table if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return driverErr("init", err)
	}
	return nil
}

// Ping verifies the connection settings actually reach a database.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return driverErr("ping", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return driverErr("close", err)
	}
	return nil
}
