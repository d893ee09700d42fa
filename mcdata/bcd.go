package mcdata

import (
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/go-mcprotocol/mc"
)

const bcdTimeLayout = "060102150405"

// BCDToWord packs up to four hex digits into a word, one digit per nibble, the first digit in the
// most significant nibble. Shorter text is padded on the left with '0'.
func BCDToWord(s string) (mc.Word, error) {
	if len(s) > 4 {
		return 0, fmt.Errorf("%w: BCD text can only have 4 digits, got %q", ErrInvalidValue, s)
	}
	s = strings.Repeat("0", 4-len(s)) + s

	var v uint16
	for i := 0; i < 4; i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			return 0, fmt.Errorf("%w: BCD text %q", ErrInvalidValue, s)
		}
		v = v<<4 | uint16(d)
	}

	return mc.Word(v), nil
}

// WordToBCD writes the four nibbles of w as upper-case hex digits, most significant first.
func WordToBCD(w mc.Word) string {
	return fmt.Sprintf("%04X", uint16(w))
}

// DateTimeToBCD packs t as "yyMMddHHmmss" into 3 BCD words. With withDayOfWeek a fourth word holding
// the weekday (Sunday = 0) is appended.
func DateTimeToBCD(t time.Time, withDayOfWeek bool) []mc.Word {
	text := t.Format(bcdTimeLayout)

	words := make([]mc.Word, 0, 4)
	for i := 0; i < len(text); i += 4 {
		// the layout only yields decimal digits
		w, _ := BCDToWord(text[i : i+4])
		words = append(words, w)
	}

	if withDayOfWeek {
		w, _ := BCDToWord(fmt.Sprintf("%02X", int(t.Weekday())))
		words = append(words, w)
	}

	return words
}

// BCDToDateTime unpacks 3 or 4 BCD words produced by DateTimeToBCD in the local time zone.
// A day-of-week word is accepted and ignored.
//
// The words carry no zone, so the result equals the packed time only when that time was in
// time.Local; use BCDToDateTimeIn(t.Location(), ...) to unpack a time from another zone.
func BCDToDateTime(words ...mc.Word) (time.Time, error) {
	return BCDToDateTimeIn(time.Local, words...)
}

// BCDToDateTimeIn is BCDToDateTime with an explicit time zone.
func BCDToDateTimeIn(loc *time.Location, words ...mc.Word) (time.Time, error) {
	if len(words) != 3 && len(words) != 4 {
		return time.Time{}, fmt.Errorf("%w: BCD date-time needs 3 or 4 words, got %d", ErrSizeMismatch, len(words))
	}

	var sb strings.Builder
	for _, w := range words[:3] {
		sb.WriteString(WordToBCD(w))
	}

	t, err := time.ParseInLocation(bcdTimeLayout, sb.String(), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: BCD date-time %q", ErrInvalidValue, sb.String())
	}

	return t, nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}
