package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/meetings-backend/internal/domain"
)

// SQLSTATE codes the artifact store distinguishes.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeStringTooLong        = "22001"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

var sqlStateErrors = map[string]error{
	codeUniqueViolation:      domain.ErrAlreadyExists,
	codeCheckViolation:       domain.ErrValidation,
	codeStringTooLong:        domain.ErrValidation,
	codeSerializationFailure: domain.ErrConflict,
	codeDeadlockDetected:     domain.ErrConflict,
	codeLockNotAvailable:     domain.ErrConflict,
}

// MapError wraps a query error for the row identified by pk, translating
// missing rows and known SQLSTATEs into domain sentinels. Context errors
// and unrecognised failures keep their original chain.
func MapError(err error, entity, pk string) error {
	if err == nil {
		return nil
	}
	prefix := entity + " " + pk

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", prefix, err)
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s: %w", prefix, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if sentinel, ok := sqlStateErrors[pgErr.Code]; ok {
			if pgErr.ConstraintName != "" {
				return fmt.Errorf("%s: %w: %s", prefix, sentinel, pgErr.ConstraintName)
			}
			return fmt.Errorf("%s: %w", prefix, sentinel)
		}
	}

	return fmt.Errorf("%s: %w", prefix, err)
}
