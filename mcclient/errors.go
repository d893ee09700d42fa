package mcclient

import "errors"

var (
	// ErrInvalidSize indicates a read size that is not positive or exceeds the per-frame point limit.
	ErrInvalidSize = errors.New("invalid read size")

	// ErrNoValues indicates a write without values.
	ErrNoValues = errors.New("no values to write")

	// ErrTransportNil indicates that a nil Transport was provided.
	ErrTransportNil = errors.New("transport is nil")

	// ErrLocalFailure is the error form of StatusLocalFailure.
	ErrLocalFailure = errors.New("local transport failure")
)
