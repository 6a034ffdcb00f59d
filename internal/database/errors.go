package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicateKey is a constraint violation error.
var ErrDuplicateKey = errors.New("duplicate key value violates table constraint")

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = pq.ErrorCode("23505")

// WrapError unifies driver errors into package level errors.
// sql.ErrNoRows is returned unchanged.
func WrapError(err error) error {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return &ConstraintError{Constraint: pqErr.Constraint, err: err}
	}
	return err
}

// ConstraintError carries the name of the violated unique constraint.
type ConstraintError struct {
	Constraint string
	err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint == "" {
		return ErrDuplicateKey.Error()
	}
	return ErrDuplicateKey.Error() + " " + e.Constraint
}

// Is reports ErrDuplicateKey so callers can match with errors.Is.
func (e *ConstraintError) Is(target error) bool {
	return target == ErrDuplicateKey
}

func (e *ConstraintError) Unwrap() error {
	return e.err
}

// IsConstraint reports whether err is a unique violation of the named constraint.
func IsConstraint(err error, name string) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Constraint == name
}
