package mc

import (
	"fmt"
	"strconv"
	"strings"
)

// Request is a parsed request frame.
type Request struct {
	Profile    FrameProfile
	Command    Command
	SubCommand SubCommand
	Device     Device
	Points     int
	// Data is the raw write payload, empty for reads.
	Data string
}

// Values decodes the write payload of the request.
func (r *Request) Values() ([]Word, error) {
	if r.SubCommand == SubCmdBit {
		if len(r.Data) != r.Points {
			return nil, fmt.Errorf("%w: %d bit digits, %d points", ErrValueCountMismatch, len(r.Data), r.Points)
		}

		return DecodeBits(r.Data)
	}

	if len(r.Data) != r.Points*4 {
		return nil, fmt.Errorf("%w: %d hex characters, %d points", ErrValueCountMismatch, len(r.Data), r.Points)
	}

	return DecodeWords(r.Data)
}

type hexField struct {
	name  string
	text  string
	store func(v uint64)
}

// ParseRequest parses a request frame produced by BuildCommand.
// The response subheader of the returned profile is left at its default.
func ParseRequest(frame string) (*Request, error) {
	if len(frame) < HeaderLength+reqDataOffset {
		return nil, ErrShortResponse
	}

	total, err := FrameLength([]byte(frame))
	if err != nil {
		return nil, err
	}
	if total != len(frame) {
		return nil, fmt.Errorf("%w: data length announces %d characters, frame has %d", ErrMalformedFrame, total, len(frame))
	}

	req := &Request{Profile: DefaultFrameProfile()}
	data := frame[HeaderLength:]

	fields := []hexField{
		{"subheader", frame[0:4], func(v uint64) { req.Profile.Subheader = uint16(v) }},
		{"network", frame[4:6], func(v uint64) { req.Profile.Network = uint8(v) }},
		{"pc number", frame[6:8], func(v uint64) { req.Profile.PCNumber = uint8(v) }},
		{"io number", frame[8:12], func(v uint64) { req.Profile.IONumber = uint16(v) }},
		{"channel", frame[12:14], func(v uint64) { req.Profile.Channel = uint8(v) }},
		{"timer", data[0:reqCommandOffset], func(v uint64) { req.Profile.Timer = uint16(v) }},
		{"command", data[reqCommandOffset:reqSubCommandOffset], func(v uint64) { req.Command = Command(v) }},
		{"sub-command", data[reqSubCommandOffset:reqDeviceOffset], func(v uint64) { req.SubCommand = SubCommand(v) }},
		{"points", data[reqPointsOffset:reqDataOffset], func(v uint64) { req.Points = int(v) }},
	}

	for _, f := range fields {
		v, err := strconv.ParseUint(f.text, 16, 16)
		if err != nil {
			return nil, malformed(f.name, f.text)
		}
		f.store(v)
	}

	typeCode := strings.TrimRight(data[reqDeviceOffset:reqAddressOffset], "*")
	address, err := ParseAddress(typeCode, data[reqAddressOffset:reqPointsOffset])
	if err != nil {
		return nil, err
	}
	req.Device = Device{Type: typeCode, Address: address}
	if err := req.Device.Validate(); err != nil {
		return nil, err
	}

	req.Data = data[reqDataOffset:]

	return req, nil
}
