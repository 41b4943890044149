package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes surfaced as domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func isUniqueViolation(err error) bool {
	return hasSQLState(err, codeUniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	return hasSQLState(err, codeForeignKeyViolation)
}

func isCheckViolation(err error) bool {
	return hasSQLState(err, codeCheckViolation)
}

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
