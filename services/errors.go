package services

import "errors"

// Error kinds returned by the service layer. Handlers map these to HTTP
// statuses with errors.Is; anything that is none of them is treated as a
// storage failure and surfaced as a generic 500.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrStore           = errors.New("storage failure")
)
