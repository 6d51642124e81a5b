package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain"
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// translateError maps driver failures onto the domain error taxonomy.
// Serialization failures and deadlocks surface as retryable conflicts;
// everything else is a persistence failure tagged with the operation.
func translateError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return &domain.ConcurrencyConflictError{Err: err}
		}
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

// isUniqueViolation reports whether err is a unique constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
