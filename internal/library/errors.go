package library

import "errors"

var (
	// ErrNotFound reports an operation that referenced a record id absent
	// from the library.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidOperation reports a precondition violation, such as a merge
	// with fewer than two resolvable records.
	ErrInvalidOperation = errors.New("invalid operation")
)
