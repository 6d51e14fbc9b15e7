package domain

import "errors"

// Error kinds raised by the simulation core. Call sites wrap them with
// context; callers test with errors.Is.
var (
	// ErrInvalidRange reports an end year before its start year.
	ErrInvalidRange = errors.New("invalid range")
	// ErrOutOfRange reports a reference to a year outside the timeline.
	ErrOutOfRange = errors.New("out of range")
	// ErrInsufficientCapacity reports an ordered deposit or withdrawal the
	// selected accounts cannot satisfy.
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	// ErrInvalidInput reports a numeric argument outside its domain.
	ErrInvalidInput = errors.New("invalid input")
)
