package model

import "errors"

var (
	// ErrNotFound is returned by point lookups when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSnapshot is returned when a snapshot already exists for the
	// same (account, date) pair. The sync job treats it as already-done;
	// every other caller must surface it.
	ErrDuplicateSnapshot = errors.New("snapshot already exists for account and date")
)
