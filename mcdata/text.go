package mcdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/go-mcprotocol/mc"
)

// WordsToASCII converts words to text, two characters per word, low byte first.
// With reverse set the two characters of every word are swapped. NUL bytes become spaces.
func WordsToASCII(reverse bool, words ...mc.Word) string {
	buf := make([]byte, len(words)*2)
	for i, w := range words {
		buf[i*2] = byte(uint16(w))
		buf[i*2+1] = byte(uint16(w) >> 8)
	}
	if reverse {
		mc.SwapBytePairs(buf)
	}

	for i, b := range buf {
		if b == 0 {
			buf[i] = ' '
		}
	}

	return string(buf)
}

// ASCIIToWords converts text to words, two characters per word, the first character in the low byte.
// Text of odd length is padded with a space. With reverse set the two characters of every word are swapped.
func ASCIIToWords(s string, reverse bool) ([]mc.Word, error) {
	if s == "" {
		return nil, ErrEmptyInput
	}

	buf := []byte(s)
	if len(buf)%2 == 1 {
		buf = append(buf, ' ')
	}
	if reverse {
		mc.SwapBytePairs(buf)
	}

	words := make([]mc.Word, len(buf)/2)
	for i := range words {
		words[i] = mc.Word(uint16(buf[i*2]) | uint16(buf[i*2+1])<<8)
	}

	return words, nil
}

// WordsToHex writes every word as four upper-case hex digits.
func WordsToHex(words ...mc.Word) string {
	var sb strings.Builder
	sb.Grow(len(words) * 4)
	for _, w := range words {
		fmt.Fprintf(&sb, "%04X", uint16(w))
	}

	return sb.String()
}

// HexToWords parses four hex digits per word. Text whose length is not a multiple of four
// is padded on the right with '0'.
func HexToWords(s string) ([]mc.Word, error) {
	if s == "" {
		return nil, ErrEmptyInput
	}
	if r := len(s) % 4; r != 0 {
		s += strings.Repeat("0", 4-r)
	}

	words := make([]mc.Word, len(s)/4)
	for i := range words {
		v, err := strconv.ParseUint(s[i*4:i*4+4], 16, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: hex text %q", ErrInvalidValue, s[i*4:i*4+4])
		}
		words[i] = mc.Word(v)
	}

	return words, nil
}

// WordsToBinary writes every word as 16 binary digits, most significant bit first.
// With reverse set the word order is reversed, so the last word comes first.
func WordsToBinary(reverse bool, words ...mc.Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprintf("%016b", uint16(w))
	}
	if reverse {
		for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
			parts[i], parts[j] = parts[j], parts[i]
		}
	}

	return strings.Join(parts, "")
}

// BinaryToWords converts a string of '0' and '1' characters to bit point values, one word per character.
func BinaryToWords(s string) ([]mc.Word, error) {
	if s == "" {
		return nil, ErrEmptyInput
	}

	words := make([]mc.Word, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			words[i] = 0
		case '1':
			words[i] = 1
		default:
			return nil, fmt.Errorf("%w: binary text %q", ErrInvalidValue, s)
		}
	}

	return words, nil
}
