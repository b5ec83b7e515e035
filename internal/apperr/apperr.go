// Package apperr holds the error conditions shared by the storage, balance and
// service layers. Callers test for them with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced account or transaction does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConcurrentModification means the unit of work lost a race with a
	// conflicting write and was aborted. The caller may retry the whole operation.
	ErrConcurrentModification = errors.New("concurrent modification")
	// ErrAccountInUse means an account cannot be removed while transactions
	// still reference it.
	ErrAccountInUse = errors.New("account has transactions")
	// ErrInvalidInput means the request was rejected before touching storage.
	ErrInvalidInput = errors.New("invalid input")
)

// NotFound returns ErrNotFound annotated with the kind and id of the missing record.
func NotFound(kind string, id fmt.Stringer) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

// Invalid returns ErrInvalidInput annotated with a reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
