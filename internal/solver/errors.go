package solver

import "errors"

// Validation errors are returned before anything reaches the Store.
var (
	ErrInvalidPosition       = errors.New("position out of range")
	ErrInvalidLetter         = errors.New("letter must be a single character a-z")
	ErrInvalidClassification = errors.New("unrecognized classification")
	ErrInvalidCell           = errors.New("grid cell out of range")
)

// ErrOracle wraps any failure of the dictionary oracle during a filtering pass.
var ErrOracle = errors.New("dictionary lookup failed")

// IsValidationError reports whether err was caused by a rejected feedback event.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidPosition) ||
		errors.Is(err, ErrInvalidLetter) ||
		errors.Is(err, ErrInvalidClassification) ||
		errors.Is(err, ErrInvalidCell)
}
