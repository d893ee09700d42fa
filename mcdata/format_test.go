package mcdata

import (
	"sync"
	"testing"

	"github.com/arloliu/go-mcprotocol/mc"
	"github.com/stretchr/testify/require"
)

func TestParseWordFormat(t *testing.T) {
	require := require.New(t)

	wf, err := ParseWordFormat("00, b, ii, b, iii, ii, i, hhhh")
	require.NoError(err)
	require.Equal("00,b,ii,b,iii,ii,i,hhhh", wf.String())
	require.Equal(7, wf.NumValues())

	fields := wf.Fields()
	require.Len(fields, 8)
	require.Equal(Field{Kind: FieldSkip, Width: 2, Shift: 14}, fields[0])
	require.Equal(Field{Kind: FieldBool, Width: 1, Shift: 13}, fields[1])
	require.Equal(Field{Kind: FieldUint, Width: 3, Shift: 7}, fields[4])
	require.Equal(Field{Kind: FieldBCD, Width: 4, Shift: 0}, fields[7])

	tests := []struct {
		format string
	}{
		{""},
		{"bb,iiiiiiiiiiiiii"},
		{"hhh,iiiiiiiiiiiii"},
		{"ib,iiiiiiiiiiiiii"},
		{"x,iiiiiiiiiiiiiii"},
		{"b,,iiiiiiiiiiiiiii"},
		{"iiiiiiiiiiiiiiii,b"},
	}

	for _, tt := range tests {
		_, err := ParseWordFormat(tt.format)
		require.ErrorIs(err, ErrInvalidFormat, tt.format)
	}

	require.Panics(func() { MustParseWordFormat("b,q") })
}

func TestWordFormatPartial(t *testing.T) {
	require := require.New(t)

	wf, err := ParseWordFormat("b,iii")
	require.NoError(err)
	require.Equal(2, wf.NumValues())
	require.Equal([]Field{
		{Kind: FieldBool, Width: 1, Shift: 15},
		{Kind: FieldUint, Width: 3, Shift: 12},
	}, wf.Fields())

	// 0xB000 = 1 011 000000000000
	require.Equal([]any{true, uint16(3)}, wf.Unpack(u16(0xB000)))
	// low bits are not read
	require.Equal([]any{true, uint16(3)}, wf.Unpack(u16(0xBFFF)))

	w, err := wf.Pack(true, 3)
	require.NoError(err)
	require.Equal(u16(0xB000), w)

	values, err := UnpackWord("hhhh", 0x1234)
	require.NoError(err)
	require.Equal([]any{"1"}, values)

	w, err = PackWord("0000,hhhh", "A")
	require.NoError(err)
	require.Equal(mc.Word(0x0A00), w)
}

func TestWordFormatUnpack(t *testing.T) {
	require := require.New(t)

	// 0x2345 = 00 1 00 0 110 10 0 0101
	wf := MustParseWordFormat("00,b,ii,b,iii,ii,i,hhhh")
	require.Equal([]any{true, uint16(0), false, uint16(6), uint16(2), uint16(0), "5"}, wf.Unpack(0x2345))

	// 0x1A25 = 000 11 0 10 00100101
	wf = MustParseWordFormat("000,ii,b,ii,hhhhhhhh")
	require.Equal([]any{uint16(3), false, uint16(2), "25"}, wf.Unpack(0x1A25))

	wf = MustParseWordFormat("iiiiiiiiiiiiiiii")
	require.Equal([]any{uint16(0xFFFF)}, wf.Unpack(-1))
}

func TestWordFormatPack(t *testing.T) {
	require := require.New(t)

	wf := MustParseWordFormat("00,b,ii,b,iii,ii,i,hhhh")
	w, err := wf.Pack(true, 0, false, 6, 2, 0, "5")
	require.NoError(err)
	require.Equal(mc.Word(0x2345), w)

	w, err = wf.Pack("1", "0", "false", "6", uint16(2), 0, 5)
	require.NoError(err)
	require.Equal(mc.Word(0x2345), w)

	wf = MustParseWordFormat("000,ii,b,ii,hhhhhhhh")
	w, err = wf.Pack(3, false, 2, 25)
	require.NoError(err)
	require.Equal(mc.Word(0x1A25), w)

	for _, value := range []mc.Word{0, 1, 0x1A25, 0x1FFF, -1} {
		got, err := wf.Pack(wf.Unpack(value)...)
		require.NoError(err)
		// the top three bits are skipped
		require.Equal(mc.Word(uint16(value)&0x1FFF), got)
	}
}

func TestWordFormatPackErrors(t *testing.T) {
	require := require.New(t)

	wf := MustParseWordFormat("000,ii,b,ii,hhhhhhhh")

	tests := []struct {
		name   string
		values []any
	}{
		{"too few values", []any{1, true, 1}},
		{"integer overflow", []any{4, true, 1, "00"}},
		{"negative integer", []any{-1, true, 1, "00"}},
		{"bad integer text", []any{"x", true, 1, "00"}},
		{"bad boolean", []any{1, 2, 1, "00"}},
		{"bad boolean text", []any{1, "yes", 1, "00"}},
		{"bcd too long", []any{1, true, 1, "123"}},
		{"bcd not hex", []any{1, true, 1, "G1"}},
		{"bcd wrong type", []any{1, true, 1, 1.5}},
	}

	for _, tt := range tests {
		_, err := wf.Pack(tt.values...)
		require.ErrorIs(err, ErrInvalidValue, tt.name)
	}
}

func TestPackWordCached(t *testing.T) {
	require := require.New(t)

	const format = "b,b,b,b,hhhh,hhhh,hhhh"

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = UnpackWord(format, 0x1234)
		}()
	}
	wg.Wait()

	values, err := UnpackWord(format, u16(0x9234))
	require.NoError(err)
	require.Equal([]any{true, false, false, true, "2", "3", "4"}, values)

	w, err := PackWord(format, values...)
	require.NoError(err)
	require.Equal(u16(0x9234), w)

	cached, ok := formatCache.Load(format)
	require.True(ok)
	require.Equal(format, cached.String())

	_, err = UnpackWord("bb", 0)
	require.ErrorIs(err, ErrInvalidFormat)

	_, err = PackWord("bb", true)
	require.ErrorIs(err, ErrInvalidFormat)
}
