package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	apperrors "github.com/smartodonto/clinic-api/pkg/errors"
)

const (
	pqUniqueViolation      = "23505"
	pqForeignKeyViolation  = "23503"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// mapError translates driver errors into the application taxonomy. Errors
// that already carry an application code pass through unchanged.
func mapError(err error, resource, action string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(resource, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return apperrors.Conflict(fmt.Sprintf("%s already exists", resource), err)
		case pqForeignKeyViolation:
			return apperrors.Validation(fmt.Sprintf("%s references a missing record", resource), err)
		case pqSerializationFailure, pqDeadlockDetected:
			return apperrors.Transient(fmt.Sprintf("failed to %s %s", action, resource), err)
		}
	}

	return fmt.Errorf("failed to %s %s: %w", action, resource, err)
}

func checkAffected(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound(resource, nil)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
