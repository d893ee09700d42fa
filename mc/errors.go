package mc

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrEmptyDeviceType indicates that a device reference has no type code.
	ErrEmptyDeviceType = errors.New("device type can not be empty")

	// ErrInvalidDeviceType indicates that a device type code is longer than two characters
	// or contains characters that can not be written in a frame.
	ErrInvalidDeviceType = errors.New("invalid device type")

	// ErrAddressOutOfRange indicates that a device address is negative or does not fit in six digits
	// of its addressing mode.
	ErrAddressOutOfRange = errors.New("device address out of range")

	// ErrInvalidPoints indicates that a point count is not in the range of [1, 0xFFFF].
	ErrInvalidPoints = errors.New("point count out of range [1, 65535]")

	// ErrValueCountMismatch indicates that the number of write values differs from the point count.
	ErrValueCountMismatch = errors.New("number of write values does not match point count")
)

var (
	// ErrShortResponse indicates that a response frame is shorter than its fixed header.
	ErrShortResponse = errors.New("response frame too short")

	// ErrMalformedFrame indicates that a frame field is not valid hex or has an unexpected length.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrPayloadTooShort indicates that a response payload carries fewer points than requested.
	ErrPayloadTooShort = errors.New("response payload shorter than requested points")
)

// DeviceError is a non-zero completion code reported by the PLC.
type DeviceError struct {
	Code int
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("plc completion code 0x%04X", e.Code)
}

// IsDeviceError reports whether err is a DeviceError and returns its completion code.
func IsDeviceError(err error) (int, bool) {
	var de *DeviceError
	if errors.As(err, &de) {
		return de.Code, true
	}

	return 0, false
}

func malformed(field string, value string) error {
	return fmt.Errorf("%w: %s %s", ErrMalformedFrame, field, strconv.Quote(value))
}
