// Package repositories holds the errors shared by every repository and store.
// Stores translate driver-specific failures (pgx.ErrNoRows, sql.ErrNoRows,
// redis.Nil, unique violations) into these values so callers can match them
// with errors.Is regardless of the backing database.
package repositories

import "errors"

var (
	ErrOperationNotSupported = errors.New("operation not supported")
	ErrNotFound              = errors.New("record not found")
	ErrDuplicate             = errors.New("duplicated entry")
)
