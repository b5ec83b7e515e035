package sqlconfig

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/carson-networks/finance-server/internal/apperr"
)

// Postgres SQLSTATE codes that map onto apperr conditions.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeForeignKeyViolation  = "23503"
)

// accountReferenceConstraint is the name Postgres gives the unnamed
// transactions.account_id foreign key.
const accountReferenceConstraint = "transactions_account_id_fkey"

// ClassifyError translates driver errors into apperr conditions. Errors it does
// not recognise are returned unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrNotFound
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return fmt.Errorf("%w: %s", apperr.ErrConcurrentModification, pqErr.Message)
	case codeForeignKeyViolation:
		return classifyForeignKey(pqErr, err)
	}
	return err
}

// classifyForeignKey tells the two sides of the account reference apart:
// deleting an account that transactions still point at, and writing a
// transaction against an account that does not exist.
func classifyForeignKey(pqErr *pq.Error, err error) error {
	if pqErr.Constraint != accountReferenceConstraint {
		return err
	}
	// Detail names the referencing column when the referenced account is
	// missing and the referenced key when it is still in use.
	if strings.Contains(pqErr.Detail, "(account_id)=") {
		return fmt.Errorf("%w: account %s", apperr.ErrNotFound, pqErr.Detail)
	}
	return fmt.Errorf("%w: %s", apperr.ErrAccountInUse, pqErr.Message)
}
