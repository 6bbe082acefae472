// Package simd provides 16-byte-at-a-time token search over strings.
//
// The core primitive finds the first byte of a string that belongs (or does not
// belong) to a small fixed set of delimiter bytes. Each 16-byte chunk is compared
// against every delimiter, the per-byte equality masks are OR-ed together and the
// lowest set bit gives the match position. On amd64 the chunk loop is an SSE2
// kernel; elsewhere it is a SWAR loop over two 64-bit words. The final partial
// chunk is always scanned byte by byte.
package simd

import "fmt"

// ChunkSize is the number of bytes examined per vector step.
const ChunkSize = 16

// MaxSetSize is the maximum number of delimiter bytes in a ByteSet.
const MaxSetSize = 12

// ByteSet is an immutable set of up to MaxSetSize delimiter bytes, pre-broadcast
// for the vector kernels. Build it once with NewByteSet and reuse it.
type ByteSet struct {
	// splat must stay the first field: the assembly kernel loads it at offset 0.
	splat [MaxSetSize][ChunkSize]byte
	table [256]bool
	bytes [MaxSetSize]byte
	n     int
}

// NewByteSet builds a set from the given delimiter bytes. It panics when called
// with no bytes or more than MaxSetSize bytes.
func NewByteSet(delims ...byte) ByteSet {
	if len(delims) == 0 || len(delims) > MaxSetSize {
		panic(fmt.Sprintf("simd: byte set needs 1..%d bytes, got %d", MaxSetSize, len(delims)))
	}

	var set ByteSet
	for slot := range MaxSetSize {
		// Unused slots repeat the first delimiter so the kernel can always
		// compare against all of them.
		b := delims[0]
		if slot < len(delims) {
			b = delims[slot]
		}
		for i := range ChunkSize {
			set.splat[slot][i] = b
		}
	}
	for _, b := range delims {
		set.table[b] = true
	}
	copy(set.bytes[:], delims)
	set.n = len(delims)
	return set
}

// Contains reports whether b is in the set.
func (set *ByteSet) Contains(b byte) bool {
	return set.table[b]
}

// Len returns the number of delimiters.
func (set *ByteSet) Len() int {
	return set.n
}

// IndexAny returns the index of the first byte of s that is in set, or -1.
func IndexAny(s string, set *ByteSet) int {
	full := len(s) &^ (ChunkSize - 1)
	if full > 0 {
		if idx := indexChunks(s[:full], set, false); idx >= 0 {
			return idx
		}
	}
	for idx := full; idx < len(s); idx++ {
		if set.table[s[idx]] {
			return idx
		}
	}
	return -1
}

// IndexNotAny returns the index of the first byte of s that is not in set, or -1.
func IndexNotAny(s string, set *ByteSet) int {
	full := len(s) &^ (ChunkSize - 1)
	if full > 0 {
		if idx := indexChunks(s[:full], set, true); idx >= 0 {
			return idx
		}
	}
	for idx := full; idx < len(s); idx++ {
		if !set.table[s[idx]] {
			return idx
		}
	}
	return -1
}
