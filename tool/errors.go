package tool

import "errors"

var (
	// ErrToolNotFound is returned by Execute for a name nothing serves.
	ErrToolNotFound = errors.New("tool not found")

	// ErrToolAlreadyRegistered is returned by Register for a taken name.
	ErrToolAlreadyRegistered = errors.New("tool already registered")

	// ErrInvalidArguments wraps a failure to decode the model's arguments.
	ErrInvalidArguments = errors.New("invalid arguments")
)
