package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return Wrap(db), mock
}

func TestTransactionContext_Commit(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET name").WithArgs("Ann", int32(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := db.TransactionContext(context.Background(), func(tx *Tx) error {
		_, err := tx.ExecContext(context.Background(), "UPDATE users SET name = $1 WHERE id = $2", "Ann", int32(1))
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionContext_RollbackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := db.TransactionContext(context.Background(), func(tx *Tx) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionContext_BeginFails(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	err := db.TransactionContext(context.Background(), func(tx *Tx) error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.ErrorContains(t, err, "failed to begin transaction")
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil))
	assert.Same(t, sql.ErrNoRows, WrapError(sql.ErrNoRows))

	other := errors.New("other")
	assert.Same(t, other, WrapError(other))

	dup := &pq.Error{Code: "23505", Constraint: ConstraintOnePendingPerUser}
	wrapped := WrapError(fmt.Errorf("insert: %w", dup))
	assert.ErrorIs(t, wrapped, ErrDuplicateKey)
	assert.True(t, IsConstraint(wrapped, ConstraintOnePendingPerUser))
	assert.False(t, IsConstraint(wrapped, ConstraintUserEmail))

	fk := &pq.Error{Code: "23503"}
	assert.NotErrorIs(t, WrapError(fk), ErrDuplicateKey)
}

func TestExecContext_MapsUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: ConstraintUserEmail})

	_, err := db.ExecContext(context.Background(), "INSERT INTO users (email) VALUES ($1)", "a@b.c")
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.True(t, IsConstraint(err, ConstraintUserEmail))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_init.up.sql")
	assert.Contains(t, names, "000001_init.down.sql")

	up, err := migrationsFS.ReadFile("migrations/000001_init.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), ConstraintOnePendingPerUser)
	assert.Contains(t, string(up), ConstraintUserEmail)
	assert.Contains(t, string(up), ConstraintOfficeOwner)
}
