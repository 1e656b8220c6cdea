package quiz

import "errors"

var (
	// ErrInvalidCategory is returned by Start for a category the bank does
	// not know.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidState is returned when an operation is not allowed in the
	// machine's current state.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation is returned for a malformed answer.
	ErrValidation = errors.New("validation error")
)
