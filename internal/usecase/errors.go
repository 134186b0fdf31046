package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrNotReady means upstream knows the resource but is still assembling
	// it. Callers should retry later rather than treat it as an outage.
	ErrNotReady = errors.New("upstream data not ready")
)
