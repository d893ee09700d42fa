// Package mcdata converts between PLC words and typed Go values.
//
// PLC memory is a sequence of 16-bit words. Wider values span consecutive words with the least
// significant word first, so an int32 occupies two words and a float64 four. Every conversion from words
// checks the exact word count it needs and returns ErrSizeMismatch otherwise.
//
// Supported conversions:
//   - Integers: int16, uint16 (1 word), int32, uint32 (2 words), int64, uint64 (4 words).
//   - Floating point: float32 (2 words) and float64 (4 words), IEEE 754.
//   - Text: ASCII (two characters per word), hex text (four digits per word) and binary text.
//   - Date-time: BCD packed "yyMMddHHmmss" in 3 words with an optional day-of-week word.
//   - Bit fields: WordFormat, a small format language that splits one word into booleans,
//     unsigned integers and BCD digits.
//
// Kind and the FromString / ToString functions perform the same conversions on their textual
// representations, which is what command line tools and configuration files deal with.
package mcdata
