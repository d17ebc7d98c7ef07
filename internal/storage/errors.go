package storage

import "errors"

// Storage errors for append-only stores.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a preview batch for the same run and
	// source has already been stored. Stores are append-only.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidateBatch checks the identity fields every store requires.
func ValidateBatch(runID, source string) error {
	if runID == "" || source == "" {
		return ErrInvalidInput
	}
	return nil
}
