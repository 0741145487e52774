// Package postgres contains the PostgreSQL implementations of the repository
// interfaces. All queries are parameterized and run through database/sql.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

// pgFKViolation is the PostgreSQL error code for foreign_key_violation.
const pgFKViolation = "23503"

// isUniqueViolation reports whether err is a unique constraint violation.
// Uniqueness (user email, category title) is enforced by the database, not
// check-then-write, so this is the only place races can surface.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// isForeignKeyViolation reports whether err is a foreign key violation,
// for example deleting a department that still has users or documents.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgFKViolation
}
