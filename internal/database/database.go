// Package database wraps sqlx with transaction helpers, query tracing and
// embedded schema migrations for PostgreSQL.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

// DriverName is the database/sql driver used by the service.
const DriverName = "postgres"

// Handler is implemented by both DB and Tx so repositories can run the same
// queries inside or outside a transaction.
type Handler interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// DB is a traced sqlx database handle.
type DB struct {
	*sqlx.DB
}

// Tx is a traced database transaction.
type Tx struct {
	*sqlx.Tx
}

var (
	_ Handler = (*DB)(nil)
	_ Handler = (*Tx)(nil)
)

// PoolOptions configures the connection pool.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultPoolOptions are applied by Open.
var DefaultPoolOptions = PoolOptions{
	MaxOpenConns:    25,
	MaxIdleConns:    5,
	ConnMaxLifetime: 5 * time.Minute,
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*DB, error) {
	db, err := sqlx.ConnectContext(ctx, DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(DefaultPoolOptions.MaxOpenConns)
	db.SetMaxIdleConns(DefaultPoolOptions.MaxIdleConns)
	db.SetConnMaxLifetime(DefaultPoolOptions.ConnMaxLifetime)

	return &DB{DB: db}, nil
}

// Wrap adapts an existing *sql.DB, e.g. one created by sqlmock.
func Wrap(db *sql.DB) *DB {
	return &DB{DB: sqlx.NewDb(db, DriverName)}
}

// Close closes the underlying pool.
func (d *DB) Close() error {
	return d.DB.Close()
}

// Ping reports whether the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// TransactionContext runs fn inside a read-committed transaction. The
// transaction is rolled back when fn returns an error and committed otherwise.
func (d *DB) TransactionContext(ctx context.Context, fn func(tx *Tx) error) error {
	txx, err := d.DB.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	tx := &Tx{txx}
	if err := fn(tx); err != nil {
		return rollback(tx, err)
	}

	if err := tx.Commit(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func rollback(tx *Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		if errors.Is(rerr, sql.ErrTxDone) {
			return err
		}
		return fmt.Errorf("failed to rollback: %s: %w", err.Error(), rerr)
	}

	return err
}
