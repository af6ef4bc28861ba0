package store

import "errors"

// Sentinel errors returned by collection operations. Callers match them
// with errors.Is; the API layer maps them onto HTTP statuses.
var (
	// ErrNotFound is returned when a record id is absent from the collection.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned by Create when the id is already present.
	ErrDuplicateID = errors.New("duplicate record id")

	// ErrCorruptRecord is returned when a stored representation cannot be
	// decoded back into its record shape. It signals a data integrity
	// problem, not a routine miss, and is surfaced distinctly from
	// ErrNotFound so operators can detect it.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrInvalidCursor is returned when a pagination token cannot be
	// decoded. List treats it as "start of collection" instead of failing,
	// so stale cursors held by clients stay harmless.
	ErrInvalidCursor = errors.New("invalid cursor")
)
