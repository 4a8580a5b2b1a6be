package errs

import "errors"

// Error taxonomy surfaced to callers of the booking engine.
// Concrete errors are attached to one of these with Mark.
var (
	// malformed or out-of-policy input: dates, party size, stay length
	ErrValidation = errors.New("validation error")
	// resource or reservation absent
	ErrNotFound = errors.New("not found")
	// overlap with an existing blocking reservation, or write scope unavailable
	ErrConflict = errors.New("conflict")
	// actor has no rights over the target reservation
	ErrAuthorization = errors.New("not authorized")
	// illegal lifecycle transition
	ErrInvalidState = errors.New("invalid state")
)

var taxonomy = []error{
	ErrValidation,
	ErrNotFound,
	ErrConflict,
	ErrAuthorization,
	ErrInvalidState,
}
