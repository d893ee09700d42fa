package mc

import (
	"fmt"
	"strings"
)

// Command is the main command code of a request.
type Command uint16

// Main command codes.
const (
	CmdBatchRead   Command = 0x0401
	CmdBatchWrite  Command = 0x1401
	CmdRandomRead  Command = 0x0403
	CmdRandomWrite Command = 0x1402
)

// String returns string representation of the command.
func (c Command) String() string {
	switch c {
	case CmdBatchRead:
		return "batch-read"
	case CmdBatchWrite:
		return "batch-write"
	case CmdRandomRead:
		return "random-read"
	case CmdRandomWrite:
		return "random-write"
	default:
		return fmt.Sprintf("command(0x%04X)", uint16(c))
	}
}

// SubCommand selects word or bit units for a command.
type SubCommand uint16

// Sub-command codes.
const (
	SubCmdWord SubCommand = 0x0000
	SubCmdBit  SubCommand = 0x0001
)

// String returns string representation of the sub-command.
func (s SubCommand) String() string {
	switch s {
	case SubCmdWord:
		return "word"
	case SubCmdBit:
		return "bit"
	default:
		return fmt.Sprintf("subcommand(0x%04X)", uint16(s))
	}
}

// SubCommandFor returns the sub-command matching the access kind of the device type.
func SubCommandFor(typeCode string) SubCommand {
	if IsBitAddressed(typeCode) {
		return SubCmdBit
	}

	return SubCmdWord
}

// Per-frame point limits.
const (
	MaxBitPoints  = 3584
	MaxWordPoints = 960
)

// MaxPoints returns the per-frame point limit of the sub-command.
func MaxPoints(sub SubCommand) int {
	if sub == SubCmdBit {
		return MaxBitPoints
	}

	return MaxWordPoints
}

// Frame layout offsets, in characters.
const (
	// HeaderLength is the length of the fixed header up to and including the data length field.
	HeaderLength = 18
	// CompletionCodeOffset is the offset of the completion code in a response.
	CompletionCodeOffset = 18
	// ResponsePayloadOffset is the offset of the payload in a response.
	ResponsePayloadOffset = 22

	dataLengthOffset = 14
	// request payload offsets relative to the end of the header.
	reqCommandOffset    = 4
	reqSubCommandOffset = 8
	reqDeviceOffset     = 12
	reqAddressOffset    = 14
	reqPointsOffset     = 20
	reqDataOffset       = 24
)

// FrameProfile holds the constant header fields of a 3E frame.
//
// The defaults address the connected station's own CPU; alternate profiles select other network
// stations or request destination modules without code changes.
type FrameProfile struct {
	// Subheader is the request subheader, 0x5000 for 3E frames.
	Subheader uint16 `yaml:"subheader" toml:"subheader"`
	// ResponseSubheader is the subheader a PLC answers with, 0xD000 for 3E frames.
	ResponseSubheader uint16 `yaml:"response_subheader" toml:"response_subheader"`
	// Network is the network number.
	Network uint8 `yaml:"network" toml:"network"`
	// PCNumber is the PC number.
	PCNumber uint8 `yaml:"pc_number" toml:"pc_number"`
	// IONumber is the request destination module I/O number.
	IONumber uint16 `yaml:"io_number" toml:"io_number"`
	// Channel is the request destination module station (channel) number.
	Channel uint8 `yaml:"channel" toml:"channel"`
	// Timer is the CPU monitoring timer, in units of 250 ms.
	Timer uint16 `yaml:"timer" toml:"timer"`
}

// DefaultFrameProfile returns the profile with the documented default header constants.
func DefaultFrameProfile() FrameProfile {
	return FrameProfile{
		Subheader:         0x5000,
		ResponseSubheader: 0xD000,
		Network:           0x00,
		PCNumber:          0xFF,
		IONumber:          0x03FF,
		Channel:           0x00,
		Timer:             0x0010,
	}
}

func (p FrameProfile) writeHeader(sb *strings.Builder, subheader uint16, dataLength int) {
	fmt.Fprintf(sb, "%04X%02X%02X%04X%02X%04X", subheader, p.Network, p.PCNumber, p.IONumber, p.Channel, dataLength)
}

// BuildCommand builds a request frame.
//
// The device type is padded to two characters with '*', the address is written per AddressingModeOf and
// the point count as four hex digits. For writes, values holds exactly points entries: with SubCmdBit each
// value collapses to a single '0' or '1' digit (any non-zero value is '1'); with SubCmdWord the values are
// hex-encoded with their byte pairs swapped, see EncodeWords.
//
// Pass nil values for read commands.
func BuildCommand(p FrameProfile, cmd Command, sub SubCommand, dev Device, points int, values []Word) (string, error) {
	if err := dev.Validate(); err != nil {
		return "", err
	}
	if points < 1 || points > 0xFFFF {
		return "", ErrInvalidPoints
	}
	if values != nil && len(values) != points {
		return "", fmt.Errorf("%w: %d values, %d points", ErrValueCountMismatch, len(values), points)
	}

	address, err := FormatAddress(dev.Type, dev.Address)
	if err != nil {
		return "", err
	}

	var data strings.Builder
	fmt.Fprintf(&data, "%04X%04X%04X", p.Timer, uint16(cmd), uint16(sub))
	data.WriteString(padDeviceType(dev.Type))
	data.WriteString(address)
	fmt.Fprintf(&data, "%04X", points)

	if values != nil {
		if sub == SubCmdBit {
			data.WriteString(EncodeBits(values))
		} else {
			data.WriteString(EncodeWords(values))
		}
	}

	var frame strings.Builder
	frame.Grow(HeaderLength + data.Len())
	p.writeHeader(&frame, p.Subheader, data.Len())
	frame.WriteString(data.String())

	return frame.String(), nil
}

// BuildRead builds a batch read frame for points starting at dev, choosing the sub-command by device type.
func BuildRead(p FrameProfile, dev Device, points int) (string, error) {
	return BuildCommand(p, CmdBatchRead, SubCommandFor(dev.Type), dev, points, nil)
}

// BuildWrite builds a batch write frame of values starting at dev, choosing the sub-command by device type.
func BuildWrite(p FrameProfile, dev Device, values []Word) (string, error) {
	return BuildCommand(p, CmdBatchWrite, SubCommandFor(dev.Type), dev, len(values), values)
}

func padDeviceType(typeCode string) string {
	if len(typeCode) >= 2 {
		return typeCode
	}

	return typeCode + strings.Repeat("*", 2-len(typeCode))
}
