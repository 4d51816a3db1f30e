package errors

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapDBError maps database errors to AppError instances.
//   - pgx.ErrNoRows → NotFound
//   - unique violations → Conflict
//   - missing table or schema → Unavailable (store not migrated)
//   - invalid text representation → Validation
//   - context timeouts/cancellations → Timeout/Canceled
//
// If the error is not a recognized database error, it returns the original error.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "Request timed out. Please try again.", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "Request was canceled.", Cause: err}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "Resource not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}
	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return &AppError{Code: ErrCodeConflict, Message: "This record already exists.", Cause: pgErr}
	case pgerrcode.UndefinedTable, pgerrcode.InvalidSchemaName:
		return &AppError{Code: ErrCodeUnavailable, Message: "The claims store has not been set up.", Cause: pgErr}
	case pgerrcode.InvalidTextRepresentation, pgerrcode.NumericValueOutOfRange:
		return &AppError{Code: ErrCodeValidation, Message: "Invalid identifier.", Cause: pgErr}
	default:
		if pgerrcode.IsConnectionException(pgErr.Code) {
			return &AppError{Code: ErrCodeUnavailable, Message: "The claims store is unavailable.", Cause: pgErr}
		}
		return &AppError{Code: ErrCodeInternal, Message: "A database error occurred. Please try again.", Cause: pgErr}
	}
}
