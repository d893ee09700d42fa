package mcdata

import (
	"errors"
	"fmt"
)

var (
	// ErrSizeMismatch indicates that a conversion received a word count different from the one it needs.
	ErrSizeMismatch = errors.New("size error")

	// ErrEmptyInput indicates that a text conversion received an empty string.
	ErrEmptyInput = errors.New("input can not be empty")

	// ErrInvalidFormat indicates a malformed WordFormat string.
	ErrInvalidFormat = errors.New("invalid word format")

	// ErrInvalidValue indicates a value that can not be converted to the requested type.
	ErrInvalidValue = errors.New("invalid value")
)

func sizeError(typeName string, need int, got int) error {
	return fmt.Errorf("%w: %s needs %d word (%d bit), got %d", ErrSizeMismatch, typeName, need, need*16, got)
}
