package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrOfficeNotFound     = errors.New("office not found")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyMember      = errors.New("user already belongs to an office")
	ErrDuplicatePending   = errors.New("user already has a pending join request")
	ErrInvalidTransition  = errors.New("join request is not pending")
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// invalidf returns an ErrValidation carrying a caller-facing message.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
