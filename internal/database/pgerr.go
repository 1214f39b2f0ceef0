package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the services react to.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeUndefinedFunction   = "42883"
	CodeStackDepthExceeded  = "54001"
)

// PgCode returns the SQLSTATE carried by err, or "" when err is not a server error.
func PgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool     { return PgCode(err) == CodeUniqueViolation }
func IsForeignKeyViolation(err error) bool { return PgCode(err) == CodeForeignKeyViolation }
func IsUndefinedFunction(err error) bool   { return PgCode(err) == CodeUndefinedFunction }
func IsStackDepthExceeded(err error) bool  { return PgCode(err) == CodeStackDepthExceeded }
