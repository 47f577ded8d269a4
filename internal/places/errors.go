package places

import "errors"

var (
	// ErrInvalidName is returned when the place name is empty
	ErrInvalidName = errors.New("invalid place name")

	// ErrInvalidCoordinates is returned when coordinates are out of range
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrNotFound is returned when the place does not exist for the client
	ErrNotFound = errors.New("saved place not found")
)
