package services

import "errors"

// Sentinel errors returned by the services. Handlers map them onto status codes,
// so wrap them with %w and add the detail after the colon.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidState means the request is well formed but the job or form cannot take it,
	// such as a submission when no form applies.
	ErrInvalidState = errors.New("cannot be processed")
)
