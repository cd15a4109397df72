package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrForeignKey is returned when a row is still referenced or references a missing row.
	ErrForeignKey = errors.New("foreign key constraint violated")
)

// Constraint names the services match on.
const (
	ConstraintOneOpenShift      = "shifts_one_open_per_staff"
	ConstraintSalaryShiftUnique = "salary_records_shift_id_key"
	ConstraintNationalIDUnique  = "staff_national_id_key"
	ConstraintRolesPKey         = "roles_pkey"
	ConstraintUsernameUnique    = "users_username_key"
	ConstraintShiftStaffFK      = "shifts_staff_id_fkey"
)

// SQLExecutor is satisfied by *sql.DB and *sql.Tx, so repository methods
// run on the pool or inside a caller-owned transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// scanner is an interface satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// pqError unwraps a driver error, if any.
func pqError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// IsUniqueViolation reports whether err is a unique violation, optionally on a named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	pqErr, ok := pqError(err)
	if !ok || pqErr.Code.Name() != "unique_violation" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	pqErr, ok := pqError(err)
	return ok && pqErr.Code.Name() == "foreign_key_violation"
}

// ConstraintOf returns the violated constraint name carried by err, or "".
func ConstraintOf(err error) string {
	if pqErr, ok := pqError(err); ok {
		return pqErr.Constraint
	}
	return ""
}
