package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when an input is rejected before any side effect.
	ErrNotValid = errors.New("not valid")
	// ErrNotDeleted is returned when a permanent deletion is requested on a
	// workspace that has not been soft deleted first.
	ErrNotDeleted = errors.New("not soft deleted")
)
