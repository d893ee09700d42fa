package mc

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

const hexDigits = "0123456789ABCDEF"

// EncodeBits writes one '0' or '1' digit per value; any non-zero value is written as '1'.
func EncodeBits(values []Word) string {
	buf := make([]byte, len(values))
	for i, v := range values {
		if v == 0 {
			buf[i] = '0'
		} else {
			buf[i] = '1'
		}
	}

	return string(buf)
}

// EncodeWords packs values into little-endian bytes, swaps every 16-bit byte pair and writes
// two upper-case hex characters per byte.
func EncodeWords(values []Word) string {
	raw := make([]byte, len(values)*2)
	for i, v := range values {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(v))
	}
	SwapBytePairs(raw)

	return hexUpper(raw)
}

// DecodeWords is the inverse of EncodeWords. The text length must be a multiple of four.
func DecodeWords(text string) ([]Word, error) {
	if len(text)%4 != 0 {
		return nil, fmt.Errorf("%w: word payload length %d is not a multiple of 4", ErrMalformedFrame, len(text))
	}

	raw, err := hex.DecodeString(text)
	if err != nil {
		return nil, malformed("word payload", text)
	}
	SwapBytePairs(raw)

	words := make([]Word, len(raw)/2)
	for i := range words {
		words[i] = Word(binary.LittleEndian.Uint16(raw[i*2:]))
	}

	return words, nil
}

// DecodeBits parses one decimal digit per point.
func DecodeBits(text string) ([]Word, error) {
	words := make([]Word, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < '0' || c > '9' {
			return nil, malformed("bit payload", text)
		}
		words[i] = Word(c - '0')
	}

	return words, nil
}

// DecodeBitPayload decodes the first points digits of a bit read payload.
func DecodeBitPayload(payload string, points int) ([]Word, error) {
	if len(payload) < points {
		return nil, fmt.Errorf("%w: %d bit digits, %d points", ErrPayloadTooShort, len(payload), points)
	}

	return DecodeBits(payload[:points])
}

// DecodeWordPayload decodes the first points words of a word read payload.
func DecodeWordPayload(payload string, points int) ([]Word, error) {
	if len(payload) < points*4 {
		return nil, fmt.Errorf("%w: %d hex characters, %d points", ErrPayloadTooShort, len(payload), points)
	}

	return DecodeWords(payload[:points*4])
}

// DecodePayload decodes a read payload per sub-command.
func DecodePayload(sub SubCommand, payload string, points int) ([]Word, error) {
	if sub == SubCmdBit {
		return DecodeBitPayload(payload, points)
	}

	return DecodeWordPayload(payload, points)
}

// SwapBytePairs swaps buf[i] and buf[i+1] for every even i. A trailing odd byte is left untouched.
func SwapBytePairs(buf []byte) {
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i], buf[i+1] = buf[i+1], buf[i]
	}
}

func hexUpper(raw []byte) string {
	var sb strings.Builder
	sb.Grow(len(raw) * 2)
	for _, b := range raw {
		sb.WriteByte(hexDigits[b>>4])
		sb.WriteByte(hexDigits[b&0x0F])
	}

	return sb.String()
}
