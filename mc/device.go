package mc

import (
	"fmt"
	"strconv"
	"strings"
)

// Word is a 16-bit PLC memory unit, the value type exchanged with callers.
type Word = int16

// AddressingMode tells how a device address is written in a frame.
type AddressingMode uint8

const (
	// Decimal addresses are written as zero-padded decimal digits.
	Decimal AddressingMode = iota
	// Hex addresses are written as zero-padded upper-case hex digits.
	Hex
)

// String returns string representation of the addressing mode.
func (m AddressingMode) String() string {
	switch m {
	case Decimal:
		return "decimal"
	case Hex:
		return "hex"
	default:
		return "unknown"
	}
}

// AccessKind tells whether a device is accessed in bit points or word points.
type AccessKind uint8

const (
	// Bit devices carry one bit per point.
	Bit AccessKind = iota
	// WordAccess devices carry one 16-bit word per point.
	WordAccess
)

// String returns string representation of the access kind.
func (k AccessKind) String() string {
	switch k {
	case Bit:
		return "bit"
	case WordAccess:
		return "word"
	default:
		return "unknown"
	}
}

// AddressWidth is the number of characters of the address field.
const AddressWidth = 6

// Maximum device address per addressing mode.
const (
	MaxDecimalAddress = 999999
	MaxHexAddress     = 0xFFFFFF
)

var wordDevices = map[string]struct{}{
	"D": {}, "SD": {}, "Z": {}, "ZR": {}, "R": {}, "W": {},
}

// "W" is both word-accessed and hex-addressed; the two classifications are independent.
var hexDevices = map[string]struct{}{
	"X": {}, "Y": {}, "B": {}, "W": {}, "SB": {}, "SW": {}, "DX": {}, "DY": {}, "ZR": {},
}

// IsBitAddressed reports whether the device type is accessed in bit points.
// It returns true for every type code except D, SD, Z, ZR, R and W.
func IsBitAddressed(typeCode string) bool {
	_, ok := wordDevices[typeCode]
	return !ok
}

// AccessKindOf returns the access kind of the device type.
func AccessKindOf(typeCode string) AccessKind {
	if IsBitAddressed(typeCode) {
		return Bit
	}

	return WordAccess
}

// AddressingModeOf returns Hex for X, Y, B, W, SB, SW, DX, DY and ZR, and Decimal otherwise.
func AddressingModeOf(typeCode string) AddressingMode {
	if _, ok := hexDevices[typeCode]; ok {
		return Hex
	}

	return Decimal
}

// Device references a typed PLC memory area and a start address within it.
type Device struct {
	// Type is the device type code, e.g. "D", "X", "M" or "ZR".
	Type string
	// Address is the start address, a non-negative integer.
	Address int
}

// String returns the conventional textual form, e.g. "D1000" or "X1A0".
func (d Device) String() string {
	if AddressingModeOf(d.Type) == Hex {
		return fmt.Sprintf("%s%X", d.Type, d.Address)
	}

	return d.Type + strconv.Itoa(d.Address)
}

// Offset returns the device advanced by n points.
func (d Device) Offset(n int) Device {
	return Device{Type: d.Type, Address: d.Address + n}
}

// IsBit reports whether the device is accessed in bit points.
func (d Device) IsBit() bool {
	return IsBitAddressed(d.Type)
}

// Validate checks that the device type is a non-empty code of at most two upper-case letters and that the
// address fits in the address field.
func (d Device) Validate() error {
	if d.Type == "" {
		return ErrEmptyDeviceType
	}
	if len(d.Type) > 2 {
		return fmt.Errorf("%w: %q is longer than 2 characters", ErrInvalidDeviceType, d.Type)
	}
	for _, r := range d.Type {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("%w: %q", ErrInvalidDeviceType, d.Type)
		}
	}

	return validateAddress(d.Type, d.Address)
}

func validateAddress(typeCode string, address int) error {
	limit := MaxDecimalAddress
	if AddressingModeOf(typeCode) == Hex {
		limit = MaxHexAddress
	}
	if address < 0 || address > limit {
		return fmt.Errorf("%w: %s address %d", ErrAddressOutOfRange, typeCode, address)
	}

	return nil
}

// FormatAddress returns the six character address text of addr for the device type.
func FormatAddress(typeCode string, address int) (string, error) {
	if err := validateAddress(typeCode, address); err != nil {
		return "", err
	}

	if AddressingModeOf(typeCode) == Hex {
		return fmt.Sprintf("%06X", address), nil
	}

	return fmt.Sprintf("%06d", address), nil
}

// ParseAddress parses the address text of a frame for the device type.
func ParseAddress(typeCode string, text string) (int, error) {
	base := 10
	if AddressingModeOf(typeCode) == Hex {
		base = 16
	}

	v, err := strconv.ParseInt(text, base, 32)
	if err != nil || v < 0 {
		return 0, malformed("address", text)
	}

	return int(v), nil
}

// ParseDevice parses a textual device reference such as "D1000", "x1a0" or "ZR200".
//
// The type code is the leading run of letters; for hex-addressed types a trailing letter run that is
// itself valid hex is taken as part of the address ("B" + "A" => B0xA is written "BA").
func ParseDevice(s string) (Device, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return Device{}, ErrEmptyDeviceType
	}

	// try the two character type codes first so "SD100" is not taken as "S" + "D100".
	for _, n := range []int{2, 1} {
		if len(s) <= n {
			continue
		}
		typeCode, addrText := s[:n], s[n:]
		if !isLetters(typeCode) {
			continue
		}
		if n == 2 && !isKnownTwoLetter(typeCode) {
			continue
		}
		addr, err := ParseAddress(typeCode, addrText)
		if err != nil {
			continue
		}
		dev := Device{Type: typeCode, Address: addr}
		if err := dev.Validate(); err != nil {
			return Device{}, err
		}

		return dev, nil
	}

	return Device{}, fmt.Errorf("%w: %q", ErrInvalidDeviceType, s)
}

var twoLetterDevices = map[string]struct{}{
	"SM": {}, "SD": {}, "SB": {}, "SW": {}, "DX": {}, "DY": {}, "ZR": {},
	"TS": {}, "TC": {}, "TN": {}, "CS": {}, "CC": {}, "CN": {},
	"SS": {}, "SC": {}, "SN": {},
}

func isKnownTwoLetter(s string) bool {
	_, ok := twoLetterDevices[s]
	return ok
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}

	return s != ""
}
