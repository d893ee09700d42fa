package mc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequest_RoundTrip(t *testing.T) {
	require := require.New(t)

	p := DefaultFrameProfile()
	p.Network = 0x03
	p.Channel = 0x01

	frame, err := BuildWrite(p, Device{Type: "W", Address: 0x1F}, []Word{7, -2})
	require.NoError(err)

	req, err := ParseRequest(frame)
	require.NoError(err)
	require.Equal(p, req.Profile)
	require.Equal(CmdBatchWrite, req.Command)
	require.Equal(SubCmdWord, req.SubCommand)
	require.Equal(Device{Type: "W", Address: 0x1F}, req.Device)
	require.Equal(2, req.Points)

	values, err := req.Values()
	require.NoError(err)
	require.Equal([]Word{7, -2}, values)

	frame, err = BuildRead(p, Device{Type: "M", Address: 8000}, 100)
	require.NoError(err)
	req, err = ParseRequest(frame)
	require.NoError(err)
	require.Equal(CmdBatchRead, req.Command)
	require.Equal(SubCmdBit, req.SubCommand)
	require.Equal(Device{Type: "M", Address: 8000}, req.Device)
	require.Equal(100, req.Points)
	require.Empty(req.Data)

	frame, err = BuildWrite(p, Device{Type: "Y", Address: 0x10}, []Word{1, 0, 1})
	require.NoError(err)
	req, err = ParseRequest(frame)
	require.NoError(err)
	values, err = req.Values()
	require.NoError(err)
	require.Equal([]Word{1, 0, 1}, values)
}

func TestParseRequest_Errors(t *testing.T) {
	require := require.New(t)

	_, err := ParseRequest("5000")
	require.ErrorIs(err, ErrShortResponse)

	// data length claims one more character than present
	_, err = ParseRequest("500000FF03FF000019001004010000D*0010000001")
	require.ErrorIs(err, ErrMalformedFrame)

	_, err = ParseRequest("500000FF03FF000018001004G10000D*0010000001")
	require.ErrorIs(err, ErrMalformedFrame)
}
