package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lawdesk-backend/internal/database"
	"lawdesk-backend/internal/repository"
)

// Store exposes the repositories bound to the connection pool and opens
// transactions that rebind them to a single *database.Tx.
type Store struct {
	db *database.DB
	repository.Registry
}

var _ repository.Transactor = (*Store)(nil)

func NewStore(db *database.DB) *Store {
	return &Store{
		db:       db,
		Registry: newRegistry(db),
	}
}

func newRegistry(h database.Handler) repository.Registry {
	return repository.Registry{
		Users:         NewUserRepository(h),
		Offices:       NewOfficeRepository(h),
		JoinRequests:  NewJoinRequestRepository(h),
		Notifications: NewNotificationRepository(h),
	}
}

// Transaction implements repository.Transactor.
func (s *Store) Transaction(ctx context.Context, fn func(repos *repository.Registry) error) error {
	return s.db.TransactionContext(ctx, func(tx *database.Tx) error {
		repos := newRegistry(tx)
		return fn(&repos)
	})
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// mapError converts driver errors into repository errors.
func mapError(err error) error {
	err = database.WrapError(err)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return repository.ErrNotFound
	case errors.Is(err, database.ErrDuplicateKey):
		return fmt.Errorf("%w: %w", repository.ErrDuplicate, err)
	}
	return err
}

// affectedOr returns errIfNone when the statement touched no row.
func affectedOr(res sql.Result, errIfNone error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errIfNone
	}
	return nil
}
