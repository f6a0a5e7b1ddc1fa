package juliafx

import "errors"

var (
	// ErrInvalidParams is returned when an effect property is out of range.
	ErrInvalidParams = errors.New("juliafx: invalid params")

	// ErrClosed is returned by operations on a closed Effect.
	ErrClosed = errors.New("juliafx: effect closed")
)
