package errors

import "errors"

// Shared application errors. Services wrap these with fmt.Errorf("%w")
// and callers match with errors.Is.
var (
	// ErrNotFound is returned when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is returned when the caller's token is missing,
	// malformed or rejected by the session backend.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller lacks permission for an action.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for invalid input data.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned for state conflicts (e.g. duplicate records).
	ErrConflict = errors.New("resource state conflict")
)
