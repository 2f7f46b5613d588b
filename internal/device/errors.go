package device

import "errors"

// Sentinel errors returned by the repository and service layers. Callers
// classify outcomes with errors.Is; wrapped context never masks the sentinel.
var (
	// ErrNotFound is returned when no device exists with the requested ID.
	ErrNotFound = errors.New("device: not found")

	// ErrDuplicate is returned when a write would produce a second device
	// with the same (name, brand) pair.
	ErrDuplicate = errors.New("device: name and brand already exist")

	// ErrInUse is returned when a write is rejected because the stored
	// device is currently in use.
	ErrInUse = errors.New("device: in use")

	// ErrInvalidState is returned when a state token is not one of the
	// recognised lifecycle states.
	ErrInvalidState = errors.New("device: invalid state")

	// ErrValidation is returned when a request payload fails field
	// validation.
	ErrValidation = errors.New("device: validation failed")
)
