package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate is returned when an insert or update hits a unique constraint.
// The constraint is the final authority on uniqueness: pre-checks in the
// service layer are race-prone and this error covers the losing writer.
// ErrDuplicateEmail and ErrDuplicatePhone wrap it with the losing column when
// the database names the constraint.
var (
	ErrDuplicate      = errors.New("duplicate value for unique column")
	ErrDuplicateEmail = fmt.Errorf("%w: email", ErrDuplicate)
	ErrDuplicatePhone = fmt.Errorf("%w: phone number", ErrDuplicate)
)

// DB is the subset of pgxpool.Pool used by the repositories.
// Both *pgxpool.Pool and pgxmock pools satisfy this interface.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// duplicateError narrows a unique violation to the column it hit. Default
// constraint names carry the column name (contacts_email_key,
// contacts_phone_number_key), so the name is enough to tell them apart.
func duplicateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ErrDuplicate
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return ErrDuplicateEmail
	case strings.Contains(pgErr.ConstraintName, "phone"):
		return ErrDuplicatePhone
	}
	return ErrDuplicate
}
