package game

import "errors"

var (
	// ErrNotFound is returned for an unknown player or match id.
	ErrNotFound = errors.New("not found")

	// ErrCapacityExceeded is returned when every display id is in use.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)
