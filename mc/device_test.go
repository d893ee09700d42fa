package mc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeviceClassification(t *testing.T) {
	tests := []struct {
		typeCode string
		bit      bool
		mode     AddressingMode
	}{
		{"D", false, Decimal},
		{"SD", false, Decimal},
		{"Z", false, Decimal},
		{"ZR", false, Hex},
		{"R", false, Decimal},
		{"W", false, Hex},
		{"X", true, Hex},
		{"Y", true, Hex},
		{"B", true, Hex},
		{"SB", true, Hex},
		{"SW", true, Hex},
		{"DX", true, Hex},
		{"DY", true, Hex},
		{"M", true, Decimal},
		{"L", true, Decimal},
		{"F", true, Decimal},
		{"SM", true, Decimal},
		{"TS", true, Decimal},
		{"CN", true, Decimal},
	}

	for _, tt := range tests {
		t.Run(tt.typeCode, func(t *testing.T) {
			require := require.New(t)
			require.Equal(tt.bit, IsBitAddressed(tt.typeCode))
			require.Equal(tt.mode, AddressingModeOf(tt.typeCode))
			if tt.bit {
				require.Equal(Bit, AccessKindOf(tt.typeCode))
				require.Equal(SubCmdBit, SubCommandFor(tt.typeCode))
			} else {
				require.Equal(WordAccess, AccessKindOf(tt.typeCode))
				require.Equal(SubCmdWord, SubCommandFor(tt.typeCode))
			}
		})
	}
}

func TestFormatAddress(t *testing.T) {
	require := require.New(t)

	addr, err := FormatAddress("D", 1000)
	require.NoError(err)
	require.Equal("001000", addr)

	addr, err = FormatAddress("X", 0x1A0)
	require.NoError(err)
	require.Equal("0001A0", addr)

	addr, err = FormatAddress("W", 255)
	require.NoError(err)
	require.Equal("0000FF", addr)

	addr, err = FormatAddress("M", MaxDecimalAddress)
	require.NoError(err)
	require.Equal("999999", addr)

	_, err = FormatAddress("M", MaxDecimalAddress+1)
	require.ErrorIs(err, ErrAddressOutOfRange)

	_, err = FormatAddress("ZR", -1)
	require.ErrorIs(err, ErrAddressOutOfRange)

	addr, err = FormatAddress("ZR", MaxHexAddress)
	require.NoError(err)
	require.Equal("FFFFFF", addr)
}

func TestDeviceValidate(t *testing.T) {
	require := require.New(t)

	require.NoError(Device{Type: "D", Address: 0}.Validate())
	require.ErrorIs(Device{Type: "", Address: 0}.Validate(), ErrEmptyDeviceType)
	require.ErrorIs(Device{Type: "ABC", Address: 0}.Validate(), ErrInvalidDeviceType)
	require.ErrorIs(Device{Type: "d", Address: 0}.Validate(), ErrInvalidDeviceType)
	require.ErrorIs(Device{Type: "D", Address: -5}.Validate(), ErrAddressOutOfRange)
}

func TestParseDevice(t *testing.T) {
	tests := []struct {
		input    string
		expected Device
	}{
		{"D1000", Device{Type: "D", Address: 1000}},
		{"d1000", Device{Type: "D", Address: 1000}},
		{"X1A0", Device{Type: "X", Address: 0x1A0}},
		{"SD100", Device{Type: "SD", Address: 100}},
		{"ZR10", Device{Type: "ZR", Address: 0x10}},
		{"BA", Device{Type: "B", Address: 0xA}},
		{"M0", Device{Type: "M", Address: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dev, err := ParseDevice(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.expected, dev)
		})
	}

	for _, bad := range []string{"", "X", "1000", "D-1", "Q!"} {
		_, err := ParseDevice(bad)
		require.Error(t, err, bad)
	}
}

func TestDeviceString(t *testing.T) {
	require := require.New(t)

	require.Equal("D1000", Device{Type: "D", Address: 1000}.String())
	require.Equal("X1A0", Device{Type: "X", Address: 0x1A0}.String())
	require.Equal("D1960", Device{Type: "D", Address: 1000}.Offset(960).String())
}
