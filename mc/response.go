package mc

import (
	"fmt"
	"strconv"
	"strings"
)

// CompletionOK is the completion code of a successful response.
const CompletionOK = "0000"

// ParseCompletionCode returns the four character completion code of a response.
// An empty response yields an empty code, and so does a response shorter than the code's end offset.
func ParseCompletionCode(response string) string {
	if len(response) < ResponsePayloadOffset {
		return ""
	}

	return response[CompletionCodeOffset:ResponsePayloadOffset]
}

// CompletionCodeValue parses a completion code as hex.
func CompletionCodeValue(code string) (int, error) {
	if len(code) != 4 {
		return 0, malformed("completion code", code)
	}
	v, err := strconv.ParseUint(code, 16, 16)
	if err != nil {
		return 0, malformed("completion code", code)
	}

	return int(v), nil
}

// ResponsePayload returns everything from the payload offset onward.
func ResponsePayload(response string) string {
	if len(response) <= ResponsePayloadOffset {
		return ""
	}

	return response[ResponsePayloadOffset:]
}

// FrameLength returns the total length a frame announces in its data length field, which is the header
// length plus the data length. It needs at least HeaderLength characters.
func FrameLength(frame []byte) (int, error) {
	if len(frame) < HeaderLength {
		return 0, ErrShortResponse
	}

	text := string(frame[dataLengthOffset:HeaderLength])
	n, err := strconv.ParseUint(text, 16, 16)
	if err != nil {
		return 0, malformed("data length", text)
	}

	return HeaderLength + int(n), nil
}

// Response is a parsed response frame.
type Response struct {
	// Code is the completion code value, zero on success.
	Code int
	// Payload is the response data following the completion code.
	Payload string
}

// OK reports whether the completion code is zero.
func (r *Response) OK() bool { return r.Code == 0 }

// Err returns a DeviceError for a non-zero completion code and nil otherwise.
func (r *Response) Err() error {
	if r.Code == 0 {
		return nil
	}

	return &DeviceError{Code: r.Code}
}

// ParseResponse cuts a response frame into its completion code and payload.
func ParseResponse(response string) (*Response, error) {
	code := ParseCompletionCode(response)
	if code == "" {
		return nil, ErrShortResponse
	}

	value, err := CompletionCodeValue(code)
	if err != nil {
		return nil, err
	}

	return &Response{Code: value, Payload: ResponsePayload(response)}, nil
}

// BuildResponse builds a response frame carrying the completion code and payload.
// The payload is only meaningful with a zero code.
func BuildResponse(p FrameProfile, code uint16, payload string) string {
	var sb strings.Builder
	p.writeHeader(&sb, p.ResponseSubheader, 4+len(payload))
	fmt.Fprintf(&sb, "%04X", code)
	sb.WriteString(payload)

	return sb.String()
}
