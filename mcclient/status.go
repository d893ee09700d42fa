package mcclient

import (
	"fmt"

	"github.com/arloliu/go-mcprotocol/mc"
)

// Status is the result of a transaction: 0 on success, the PLC completion code when the PLC
// rejected the request, or -1 when the exchange failed locally.
type Status int

const (
	// StatusSuccess indicates that every frame of the transaction completed with code 0000.
	StatusSuccess Status = 0
	// StatusLocalFailure indicates that no usable response was received.
	StatusLocalFailure Status = -1
)

// IsSuccess reports whether the transaction succeeded.
func (s Status) IsSuccess() bool { return s == StatusSuccess }

// IsLocalFailure reports whether the transaction failed without a PLC response.
func (s Status) IsLocalFailure() bool { return s < 0 }

// IsDeviceError reports whether the PLC answered with a non-zero completion code.
func (s Status) IsDeviceError() bool { return s > 0 }

// Err returns nil on success, ErrLocalFailure for a local failure and an mc.DeviceError otherwise.
func (s Status) Err() error {
	switch {
	case s.IsSuccess():
		return nil
	case s.IsLocalFailure():
		return ErrLocalFailure
	default:
		return &mc.DeviceError{Code: int(s)}
	}
}

// String returns string representation of the status.
func (s Status) String() string {
	switch {
	case s.IsSuccess():
		return "success"
	case s.IsLocalFailure():
		return "local failure"
	default:
		return fmt.Sprintf("device error 0x%04X", int(s))
	}
}
