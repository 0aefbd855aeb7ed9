package pgdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"freelance-marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SQLSTATE codes classified into repo_errors sentinels.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeNumericOutOfRange    = "22003"
	codeInvalidText          = "22P02"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return repo_errors.ErrNotFound
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", repo_errors.ErrUnavailable, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", repo_errors.ErrUniqueViolation, pqErr.Constraint)
		case codeCheckViolation, codeNumericOutOfRange, codeInvalidText:
			return fmt.Errorf("%w: %s", repo_errors.ErrInvalidValue, pqErr.Message)
		case codeLockNotAvailable, codeQueryCanceled, codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%w: %s", repo_errors.ErrUnavailable, pqErr.Message)
		}
	}

	return err
}

// parseId treats a malformed id as a missing record: no row can carry it.
func parseId(id string) (uuid.UUID, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, repo_errors.ErrNotFound
	}

	return uuidForm, nil
}
