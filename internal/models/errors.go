package models

import "errors"

// Sentinel errors classifying every store and service failure. Callers wrap
// them with fmt.Errorf("...: %w", ...) and classify with errors.Is, so the
// HTTP layer never has to string-match error text.
var (
	// ErrInitialize means the backing store was unreachable or malformed at
	// startup. Fatal; callers should abort.
	ErrInitialize = errors.New("store initialization failed")

	// ErrNotFound means a lookup matched zero records.
	ErrNotFound = errors.New("no results returned")

	// ErrValidation means caller-supplied data violated a precondition.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means a uniqueness constraint was violated.
	ErrConflict = errors.New("record already exists")

	// ErrPersistence means a write failed for an unspecified store reason.
	ErrPersistence = errors.New("storage operation failed")

	// ErrHashing means password hash computation itself failed.
	ErrHashing = errors.New("password hashing failed")

	// ErrIncorrectPassword means the supplied password did not match the
	// stored hash.
	ErrIncorrectPassword = errors.New("incorrect password")
)
