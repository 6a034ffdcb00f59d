package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"lawdesk-backend/internal/logger"
)

func trace(query string, args ...interface{}) {
	logger.DatabaseCall("query", query, "args", args)
}

// SelectContext is a wrapper around sqlx.SelectContext that logs the query and arguments.
func (d *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	trace(query, args...)
	return WrapError(d.DB.SelectContext(ctx, dest, query, args...))
}

// GetContext is a wrapper around sqlx.GetContext that logs the query and arguments.
func (d *DB) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	trace(query, args...)
	return WrapError(d.DB.GetContext(ctx, dest, query, args...))
}

// QueryRowxContext is a wrapper around sqlx.QueryRowxContext that logs the query and arguments.
func (d *DB) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	trace(query, args...)
	return d.DB.QueryRowxContext(ctx, query, args...)
}

// ExecContext is a wrapper around sqlx.ExecContext that logs the query and arguments.
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	trace(query, args...)
	res, err := d.DB.ExecContext(ctx, query, args...)
	return res, WrapError(err)
}

// SelectContext is a wrapper around sqlx.SelectContext that logs the query and arguments.
func (t *Tx) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	trace(query, args...)
	return WrapError(t.Tx.SelectContext(ctx, dest, query, args...))
}

// GetContext is a wrapper around sqlx.GetContext that logs the query and arguments.
func (t *Tx) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	trace(query, args...)
	return WrapError(t.Tx.GetContext(ctx, dest, query, args...))
}

// QueryRowxContext is a wrapper around sqlx.QueryRowxContext that logs the query and arguments.
func (t *Tx) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	trace(query, args...)
	return t.Tx.QueryRowxContext(ctx, query, args...)
}

// ExecContext is a wrapper around sqlx.ExecContext that logs the query and arguments.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	trace(query, args...)
	res, err := t.Tx.ExecContext(ctx, query, args...)
	return res, WrapError(err)
}
