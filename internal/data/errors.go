package data

import "errors"

// Errors returned by every store implementation. Callers match them with errors.Is.
var (
	// ErrNotFound means no document matched the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate means a unique key (username, discussion name) is already taken.
	ErrDuplicate = errors.New("duplicate key")
	// ErrConflict means a conditional write did not apply because its guard failed.
	ErrConflict = errors.New("conditional write not applied")
)
