package mcdata

import (
	"math"

	"github.com/arloliu/go-mcprotocol/mc"
)

// toWords splits the low n*16 bits of v into n words, least significant word first.
func toWords(v uint64, n int) []mc.Word {
	words := make([]mc.Word, n)
	for i := range words {
		words[i] = mc.Word(uint16(v >> (16 * i)))
	}

	return words
}

// fromWords joins exactly n words, least significant word first.
func fromWords(typeName string, words []mc.Word, n int) (uint64, error) {
	if len(words) != n {
		return 0, sizeError(typeName, n, len(words))
	}

	var v uint64
	for i, w := range words {
		v |= uint64(uint16(w)) << (16 * i)
	}

	return v, nil
}

// Int16ToWords converts v to 1 word.
func Int16ToWords(v int16) []mc.Word { return toWords(uint64(uint16(v)), 1) }

// Uint16ToWords converts v to 1 word.
func Uint16ToWords(v uint16) []mc.Word { return toWords(uint64(v), 1) }

// Int32ToWords converts v to 2 words.
func Int32ToWords(v int32) []mc.Word { return toWords(uint64(uint32(v)), 2) }

// Uint32ToWords converts v to 2 words.
func Uint32ToWords(v uint32) []mc.Word { return toWords(uint64(v), 2) }

// Int64ToWords converts v to 4 words.
func Int64ToWords(v int64) []mc.Word { return toWords(uint64(v), 4) }

// Uint64ToWords converts v to 4 words.
func Uint64ToWords(v uint64) []mc.Word { return toWords(v, 4) }

// Float32ToWords converts the IEEE 754 bits of v to 2 words.
func Float32ToWords(v float32) []mc.Word { return toWords(uint64(math.Float32bits(v)), 2) }

// Float64ToWords converts the IEEE 754 bits of v to 4 words.
func Float64ToWords(v float64) []mc.Word { return toWords(math.Float64bits(v), 4) }

// WordsToInt16 converts exactly 1 word to int16.
func WordsToInt16(words []mc.Word) (int16, error) {
	v, err := fromWords("int16", words, 1)
	return int16(v), err
}

// WordsToUint16 converts exactly 1 word to uint16.
func WordsToUint16(words []mc.Word) (uint16, error) {
	v, err := fromWords("uint16", words, 1)
	return uint16(v), err
}

// WordsToInt32 converts exactly 2 words to int32.
func WordsToInt32(words []mc.Word) (int32, error) {
	v, err := fromWords("int32", words, 2)
	return int32(uint32(v)), err
}

// WordsToUint32 converts exactly 2 words to uint32.
func WordsToUint32(words []mc.Word) (uint32, error) {
	v, err := fromWords("uint32", words, 2)
	return uint32(v), err
}

// WordsToInt64 converts exactly 4 words to int64.
func WordsToInt64(words []mc.Word) (int64, error) {
	v, err := fromWords("int64", words, 4)
	return int64(v), err
}

// WordsToUint64 converts exactly 4 words to uint64.
func WordsToUint64(words []mc.Word) (uint64, error) {
	return fromWords("uint64", words, 4)
}

// WordsToFloat32 converts exactly 2 words to float32.
func WordsToFloat32(words []mc.Word) (float32, error) {
	v, err := fromWords("float32", words, 2)
	return math.Float32frombits(uint32(v)), err
}

// WordsToFloat64 converts exactly 4 words to float64.
func WordsToFloat64(words []mc.Word) (float64, error) {
	v, err := fromWords("float64", words, 4)
	return math.Float64frombits(v), err
}
