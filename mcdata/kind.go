package mcdata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/go-mcprotocol/mc"
)

// Kind names a value representation stored in PLC words.
type Kind string

// Supported kinds.
const (
	KindInt16   Kind = "int16"
	KindUint16  Kind = "uint16"
	KindInt32   Kind = "int32"
	KindUint32  Kind = "uint32"
	KindInt64   Kind = "int64"
	KindUint64  Kind = "uint64"
	KindFloat32 Kind = "float32"
	KindFloat64 Kind = "float64"
	KindASCII   Kind = "ascii"
	KindHex     Kind = "hex"
	KindBinary  Kind = "binary"
	KindBCDTime Kind = "bcdtime"
)

// DateTimeLayout is the textual form of KindBCDTime values.
const DateTimeLayout = "2006-01-02 15:04:05"

var kinds = []Kind{
	KindInt16, KindUint16, KindInt32, KindUint32, KindInt64, KindUint64,
	KindFloat32, KindFloat64, KindASCII, KindHex, KindBinary, KindBCDTime,
}

// Kinds returns every supported kind.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range kinds {
		if k == known {
			return k, nil
		}
	}

	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidValue, s)
}

// WordCount returns the number of words one value of the kind occupies,
// or 0 when the kind has a variable length.
func (k Kind) WordCount() int {
	switch k {
	case KindInt16, KindUint16:
		return 1
	case KindInt32, KindUint32, KindFloat32:
		return 2
	case KindInt64, KindUint64, KindFloat64:
		return 4
	case KindBCDTime:
		return 3
	default:
		return 0
	}
}

// FromString converts the textual value s to words.
func FromString(k Kind, s string) ([]mc.Word, error) {
	if s == "" {
		return nil, ErrEmptyInput
	}

	switch k {
	case KindInt16:
		v, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return nil, invalid(k, s)
		}
		return Int16ToWords(int16(v)), nil
	case KindUint16:
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return nil, invalid(k, s)
		}
		return Uint16ToWords(uint16(v)), nil
	case KindInt32:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, invalid(k, s)
		}
		return Int32ToWords(int32(v)), nil
	case KindUint32:
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, invalid(k, s)
		}
		return Uint32ToWords(uint32(v)), nil
	case KindInt64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, invalid(k, s)
		}
		return Int64ToWords(v), nil
	case KindUint64:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, invalid(k, s)
		}
		return Uint64ToWords(v), nil
	case KindFloat32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, invalid(k, s)
		}
		return Float32ToWords(float32(v)), nil
	case KindFloat64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, invalid(k, s)
		}
		return Float64ToWords(v), nil
	case KindASCII:
		return ASCIIToWords(s, false)
	case KindHex:
		return HexToWords(s)
	case KindBinary:
		return BinaryToWords(s)
	case KindBCDTime:
		t, err := time.ParseInLocation(DateTimeLayout, s, time.Local)
		if err != nil {
			return nil, invalid(k, s)
		}
		return DateTimeToBCD(t, false), nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidValue, k)
	}
}

// ToString converts words holding exactly one value of the kind to text.
// Variable length kinds consume all words.
func ToString(k Kind, words []mc.Word) (string, error) {
	switch k {
	case KindInt16:
		v, err := WordsToInt16(words)
		return strconv.FormatInt(int64(v), 10), err
	case KindUint16:
		v, err := WordsToUint16(words)
		return strconv.FormatUint(uint64(v), 10), err
	case KindInt32:
		v, err := WordsToInt32(words)
		return strconv.FormatInt(int64(v), 10), err
	case KindUint32:
		v, err := WordsToUint32(words)
		return strconv.FormatUint(uint64(v), 10), err
	case KindInt64:
		v, err := WordsToInt64(words)
		return strconv.FormatInt(v, 10), err
	case KindUint64:
		v, err := WordsToUint64(words)
		return strconv.FormatUint(v, 10), err
	case KindFloat32:
		v, err := WordsToFloat32(words)
		return strconv.FormatFloat(float64(v), 'g', -1, 32), err
	case KindFloat64:
		v, err := WordsToFloat64(words)
		return strconv.FormatFloat(v, 'g', -1, 64), err
	case KindASCII:
		return WordsToASCII(false, words...), nil
	case KindHex:
		return WordsToHex(words...), nil
	case KindBinary:
		return WordsToBinary(false, words...), nil
	case KindBCDTime:
		t, err := BCDToDateTime(words...)
		if err != nil {
			return "", err
		}
		return t.Format(DateTimeLayout), nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidValue, k)
	}
}

// ToStrings splits words into consecutive values of the kind and converts each to text.
// Variable length kinds yield a single string.
func ToStrings(k Kind, words []mc.Word) ([]string, error) {
	n := k.WordCount()
	if n == 0 {
		s, err := ToString(k, words)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	if len(words)%n != 0 {
		return nil, sizeError(string(k), n, len(words))
	}

	out := make([]string, 0, len(words)/n)
	for i := 0; i < len(words); i += n {
		s, err := ToString(k, words[i:i+n])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, nil
}

func invalid(k Kind, s string) error {
	return fmt.Errorf("%w: %q is not a valid %s", ErrInvalidValue, s, k)
}
