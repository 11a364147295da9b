package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a department does not exist.
	ErrNotFound = errors.New("department not found")
	// ErrDuplicateName is returned when the unique name constraint rejects a write.
	ErrDuplicateName = errors.New("department with this name already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrRoleNotFound  = errors.New("role not found")
	// ErrDuplicateUserName is returned when the normalized user name is taken.
	ErrDuplicateUserName = errors.New("user name already taken")
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation error.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
