package booking

import "errors"

// Failure kinds surfaced by the engine. Callers classify with
// errors.Is; the web layer maps each to a distinct status code.
var (
	ErrValidation = errors.New("invalid request")
	ErrConstraint = errors.New("constraint violated")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)
