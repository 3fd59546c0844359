package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres unique_violation.
const pgUniqueViolation = "23505"

// MapError folds driver errors into a domain's sentinels: sql.ErrNoRows
// becomes notFound, a unique-constraint violation becomes duplicate, and
// anything else passes through untouched.
func MapError(err error, notFound, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return duplicate
	}
	return err
}
