package usecase

import "errors"

// Sentinels returned by the pipeline and query services. httpapi maps each one to a status code.
var (
	// ErrInvalidInput covers bad request values and datasets with nothing to train on.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned by predict when no trained model has been stored yet, and when
	// feedback names an unknown match.
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
