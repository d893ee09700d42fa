package mcdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/go-mcprotocol/mc"
	"github.com/puzpuzpuz/xsync/v3"
)

// FieldKind is the kind of a WordFormat field.
type FieldKind uint8

const (
	// FieldBool is a single bit, symbol 'b'.
	FieldBool FieldKind = iota
	// FieldUint is a run of bits read as an unsigned integer, symbol 'i'.
	FieldUint
	// FieldBCD is a run of 4-bit groups, each read as one hex digit, symbol 'h'.
	FieldBCD
	// FieldSkip is a run of ignored bits, symbol '0'.
	FieldSkip
)

// String returns string representation of the field kind.
func (k FieldKind) String() string {
	switch k {
	case FieldBool:
		return "bool"
	case FieldUint:
		return "uint"
	case FieldBCD:
		return "bcd"
	case FieldSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Field is one parsed token of a WordFormat.
type Field struct {
	Kind FieldKind
	// Width is the number of bits of the field.
	Width int
	// Shift is the bit position of the field's least significant bit within the word.
	Shift int
}

func (f Field) mask() uint16 {
	return uint16((uint32(1)<<f.Width - 1) << f.Shift)
}

// WordFormat describes how one 16-bit word splits into fields.
//
// A format string is a comma separated list of tokens scanned from the most significant bit:
//   - "b" is one bit, unpacked as a bool.
//   - a run of "i" is that many bits, unpacked as an unsigned integer (uint16).
//   - a run of "h" is a multiple of 4 bits, every 4 bits unpacked as one hex digit (string).
//   - a run of "0" is that many ignored bits.
//
// Spaces are ignored and the token widths may add up to at most 16 bits, for example
// "00,b,ii,b,iii,ii,i,hhhh" or "000,ii,b,ii,hhhhhhhh". A shorter format such as "b,iii" describes
// only the high bits; the remaining low bits are not unpacked and Pack leaves them zero.
//
// A parsed WordFormat is immutable and safe for concurrent use.
type WordFormat struct {
	text   string
	fields []Field
	values int
}

// ParseWordFormat parses and validates a format string.
func ParseWordFormat(format string) (*WordFormat, error) {
	text := strings.ReplaceAll(format, " ", "")
	if text == "" {
		return nil, fmt.Errorf("%w: empty format", ErrInvalidFormat)
	}

	tokens := strings.Split(text, ",")
	wf := &WordFormat{text: text, fields: make([]Field, 0, len(tokens))}

	pos := 16
	for _, tok := range tokens {
		if tok == "" {
			return nil, fmt.Errorf("%w: empty token in %q", ErrInvalidFormat, format)
		}

		symbol := tok[0]
		if strings.Count(tok, string(symbol)) != len(tok) {
			return nil, fmt.Errorf("%w: mixed symbols in token %q", ErrInvalidFormat, tok)
		}

		var kind FieldKind
		switch symbol {
		case 'b':
			if len(tok) != 1 {
				return nil, fmt.Errorf("%w: boolean can only have 1 bit, token %q", ErrInvalidFormat, tok)
			}
			kind = FieldBool
		case 'i':
			kind = FieldUint
		case 'h':
			if len(tok)%4 != 0 {
				return nil, fmt.Errorf("%w: BCD token %q is not a multiple of 4 bits", ErrInvalidFormat, tok)
			}
			kind = FieldBCD
		case '0':
			kind = FieldSkip
		default:
			return nil, fmt.Errorf("%w: unknown format symbol %q", ErrInvalidFormat, symbol)
		}

		pos -= len(tok)
		if pos < 0 {
			return nil, fmt.Errorf("%w: %q exceeds 16 bits", ErrInvalidFormat, format)
		}

		wf.fields = append(wf.fields, Field{Kind: kind, Width: len(tok), Shift: pos})
		if kind != FieldSkip {
			wf.values++
		}
	}

	return wf, nil
}

// MustParseWordFormat is like ParseWordFormat but panics on a malformed format.
func MustParseWordFormat(format string) *WordFormat {
	wf, err := ParseWordFormat(format)
	if err != nil {
		panic(err)
	}

	return wf
}

// String returns the normalized format string.
func (f *WordFormat) String() string { return f.text }

// Fields returns a copy of the parsed fields, most significant first.
func (f *WordFormat) Fields() []Field {
	fields := make([]Field, len(f.fields))
	copy(fields, f.fields)

	return fields
}

// NumValues returns the number of values Unpack produces and Pack consumes.
func (f *WordFormat) NumValues() int { return f.values }

// Unpack splits w into one value per non-skip field: bool for 'b', uint16 for 'i' and
// a string of hex digits for 'h'.
func (f *WordFormat) Unpack(w mc.Word) []any {
	u := uint16(w)
	values := make([]any, 0, f.values)

	for _, field := range f.fields {
		v := (u & field.mask()) >> field.Shift
		switch field.Kind {
		case FieldBool:
			values = append(values, v == 1)
		case FieldUint:
			values = append(values, v)
		case FieldBCD:
			values = append(values, fmt.Sprintf("%0*X", field.Width/4, v))
		case FieldSkip:
		}
	}

	return values
}

// Pack builds a word from one value per non-skip field. Fields keep their position from the most
// significant bit; skipped and uncovered low bits are zero.
//
// Accepted values: bool, an integer or "0"/"1"/"true"/"false" for 'b'; an integer or decimal text for 'i';
// hex digit text for 'h', where an integer is taken by its decimal digits (12 packs as 0x12).
func (f *WordFormat) Pack(values ...any) (mc.Word, error) {
	if len(values) != f.values {
		return 0, fmt.Errorf("%w: format %q needs %d values, got %d", ErrInvalidValue, f.text, f.values, len(values))
	}

	var u uint16
	idx := 0
	for _, field := range f.fields {
		if field.Kind == FieldSkip {
			continue
		}

		v, err := fieldValue(field, values[idx])
		if err != nil {
			return 0, fmt.Errorf("value %d: %w", idx, err)
		}
		idx++

		u |= (v << field.Shift) & field.mask()
	}

	return mc.Word(u), nil
}

func fieldValue(field Field, value any) (uint16, error) {
	limit := uint64(1)<<field.Width - 1

	switch field.Kind {
	case FieldBool:
		switch v := value.(type) {
		case bool:
			if v {
				return 1, nil
			}
			return 0, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return 0, fmt.Errorf("%w: boolean %q", ErrInvalidValue, v)
			}
			if b {
				return 1, nil
			}
			return 0, nil
		}

		n, ok := toUint64(value)
		if !ok || n > 1 {
			return 0, fmt.Errorf("%w: boolean %v", ErrInvalidValue, value)
		}
		return uint16(n), nil

	case FieldUint:
		n, ok := toUint64(value)
		if s, isText := value.(string); isText {
			parsed, err := strconv.ParseUint(s, 10, 16)
			if err != nil {
				return 0, fmt.Errorf("%w: integer %q", ErrInvalidValue, s)
			}
			n, ok = parsed, true
		}
		if !ok {
			return 0, fmt.Errorf("%w: integer %v", ErrInvalidValue, value)
		}
		if n > limit {
			return 0, fmt.Errorf("%w: %d does not fit in %d bits", ErrInvalidValue, n, field.Width)
		}
		return uint16(n), nil

	case FieldBCD:
		var digits string
		if s, ok := value.(string); ok {
			digits = s
		} else if n, ok := toUint64(value); ok {
			digits = strconv.FormatUint(n, 10)
		} else {
			return 0, fmt.Errorf("%w: BCD %v", ErrInvalidValue, value)
		}
		if digits == "" || len(digits) > field.Width/4 {
			return 0, fmt.Errorf("%w: BCD %q does not fit in %d digits", ErrInvalidValue, digits, field.Width/4)
		}
		n, err := strconv.ParseUint(digits, 16, 16)
		if err != nil {
			return 0, fmt.Errorf("%w: BCD %q", ErrInvalidValue, digits)
		}
		return uint16(n), nil

	default:
		return 0, nil
	}
}

func toUint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case int:
		return uint64(v), v >= 0
	case int8:
		return uint64(v), v >= 0
	case int16:
		return uint64(v), v >= 0
	case int32:
		return uint64(v), v >= 0
	case int64:
		return uint64(v), v >= 0
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	default:
		return 0, false
	}
}

var formatCache = xsync.NewMapOf[string, *WordFormat]()

func cachedFormat(format string) (*WordFormat, error) {
	if wf, ok := formatCache.Load(format); ok {
		return wf, nil
	}

	wf, err := ParseWordFormat(format)
	if err != nil {
		return nil, err
	}
	wf, _ = formatCache.LoadOrStore(format, wf)

	return wf, nil
}

// UnpackWord parses format, caching the result for later calls, and unpacks w with it.
func UnpackWord(format string, w mc.Word) ([]any, error) {
	wf, err := cachedFormat(format)
	if err != nil {
		return nil, err
	}

	return wf.Unpack(w), nil
}

// PackWord parses format, caching the result for later calls, and packs values with it.
func PackWord(format string, values ...any) (mc.Word, error) {
	wf, err := cachedFormat(format)
	if err != nil {
		return 0, err
	}

	return wf.Pack(values...)
}
