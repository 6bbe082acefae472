package simd

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func naiveIndex(s string, set *ByteSet, invert bool) int {
	for i := 0; i < len(s); i++ {
		if set.Contains(s[i]) != invert {
			return i
		}
	}
	return -1
}

func TestNewByteSet(t *testing.T) {
	t.Parallel()

	set := NewByteSet('<', '>', '"')
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains('<'))
	assert.True(t, set.Contains('"'))
	assert.False(t, set.Contains('a'))

	// Unused slots repeat the first delimiter.
	for slot := 3; slot < MaxSetSize; slot++ {
		assert.Equal(t, byte('<'), set.splat[slot][0])
		assert.Equal(t, byte('<'), set.splat[slot][ChunkSize-1])
	}

	assert.Panics(t, func() { NewByteSet() })
	assert.Panics(t, func() { NewByteSet([]byte("0123456789abc")...) })
}

func TestIndexAny(t *testing.T) {
	t.Parallel()

	set := NewByteSet('<', '\n')

	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "empty", input: "", expected: -1},
		{name: "first byte", input: "<abc", expected: 0},
		{name: "short tail", input: "abc\n", expected: 3},
		{name: "no match short", input: "abcdef", expected: -1},
		{name: "exact chunk", input: "0123456789abcde<", expected: 15},
		{name: "second chunk", input: "0123456789abcdef01<", expected: 18},
		{name: "tail after full chunks", input: strings.Repeat("x", 32) + "ab<", expected: 34},
		{name: "no match long", input: strings.Repeat("x", 100), expected: -1},
		{name: "earliest of two", input: strings.Repeat("x", 20) + "\n<", expected: 20},
		{name: "high bytes", input: strings.Repeat("é", 12) + "<", expected: 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IndexAny(tt.input, &set))
			full := len(tt.input) &^ (ChunkSize - 1)
			want := naiveIndex(tt.input[:full], &set, false)
			assert.Equal(t, want, indexChunksSWAR(tt.input[:full], &set, false))
		})
	}
}

func TestIndexNotAny(t *testing.T) {
	t.Parallel()

	space := NewByteSet(' ', '\t', '\n', '\r')

	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "empty", input: "", expected: -1},
		{name: "all space", input: strings.Repeat(" \t", 20), expected: -1},
		{name: "leading text", input: "a   ", expected: 0},
		{name: "after chunk", input: strings.Repeat(" ", 16) + "x", expected: 16},
		{name: "inside chunk", input: "\r\n\t  x" + strings.Repeat(" ", 20), expected: 5},
		{name: "nul byte", input: strings.Repeat(" ", 17) + "\x00", expected: 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IndexNotAny(tt.input, &space))
		})
	}
}

func TestIndexAgreesWithNaive(t *testing.T) {
	t.Parallel()

	sets := []ByteSet{
		NewByteSet('<'),
		NewByteSet('"', '\\'),
		NewByteSet(' ', '\t', '\n', '\r', '>', '/'),
		NewByteSet(0x00, 0x80, 0xFF, 0x7F, 0x01, 0xFE, 'a', 'z', 0xC2, 0xE2, 0xE3, '='),
	}
	alphabet := []byte("ab<>\"\\/ \t\n\r\x00\x7f\x80\xff=\xc2\xe2\xe3")

	rng := rand.New(rand.NewPCG(1, 2))
	buf := make([]byte, 0, 80)
	for range 2000 {
		buf = buf[:0]
		n := rng.IntN(80)
		for range n {
			buf = append(buf, alphabet[rng.IntN(len(alphabet))])
		}
		s := string(buf)

		for i := range sets {
			set := &sets[i]
			require.Equal(t, naiveIndex(s, set, false), IndexAny(s, set), "IndexAny(%q)", s)
			require.Equal(t, naiveIndex(s, set, true), IndexNotAny(s, set), "IndexNotAny(%q)", s)

			full := len(s) &^ (ChunkSize - 1)
			require.Equal(t, naiveIndex(s[:full], set, false), indexChunksSWAR(s[:full], set, false))
			require.Equal(t, naiveIndex(s[:full], set, true), indexChunksSWAR(s[:full], set, true))
		}
	}
}

func TestZeroBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(highBits), zeroBytes(0))
	assert.Equal(t, uint64(0), zeroBytes(^uint64(0)))
	// 0x0100 has a zero low byte next to a non-zero byte; no borrow leaks.
	assert.Equal(t, uint64(0x8080808080800080), zeroBytes(0x0000000000000100))
	assert.Equal(t, uint64(0x80), zeroBytes(0x8080808080808000))
}

func TestKernel(t *testing.T) {
	t.Parallel()

	assert.Contains(t, []string{"sse2", "swar"}, Kernel())
}

func BenchmarkIndexAny(b *testing.B) {
	set := NewByteSet('<', '\n')
	s := strings.Repeat("lorem ipsum dolor sit amet ", 64) + "<"

	b.SetBytes(int64(len(s)))
	b.ReportAllocs()
	for b.Loop() {
		if IndexAny(s, &set) < 0 {
			b.Fatal("no match")
		}
	}
}
