package domain

import "errors"

// Error kinds. Concrete errors wrap one of these so callers can classify
// them with errors.Is; only the driving adapter turns a kind into a
// transport status.
var (
	ErrValidation = errors.New("invalid input")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("unauthorized")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrInternal   = errors.New("internal error")
)
