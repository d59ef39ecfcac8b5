package records

import "errors"

// Set of error values returned by field access.
var (
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrNotNullable   = errors.New("column is not nullable")
	ErrUnknownColumn = errors.New("unknown column")
	ErrTupleLength   = errors.New("tuple length mismatch")
)
