package simd

import "math/bits"

const (
	low7Bits  = 0x7f7f7f7f7f7f7f7f
	highBits  = 0x8080808080808080
	byteOnes  = 0x0101010101010101
	wordBytes = 8
)

// indexChunksSWAR scans whole 16-byte chunks of s as two little-endian words.
// len(s) must be a multiple of ChunkSize.
func indexChunksSWAR(s string, set *ByteSet, invert bool) int {
	for base := 0; base+ChunkSize <= len(s); base += ChunkSize {
		lo := matchWord(load64(s, base), set)
		hi := matchWord(load64(s, base+wordBytes), set)
		if invert {
			lo = ^lo & highBits
			hi = ^hi & highBits
		}
		if lo != 0 {
			return base + bits.TrailingZeros64(lo)/wordBytes
		}
		if hi != 0 {
			return base + wordBytes + bits.TrailingZeros64(hi)/wordBytes
		}
	}
	return -1
}

// matchWord sets the high bit of every byte of w equal to a delimiter.
func matchWord(w uint64, set *ByteSet) uint64 {
	var mask uint64
	for i := 0; i < set.n; i++ {
		mask |= zeroBytes(w ^ (uint64(set.bytes[i]) * byteOnes))
	}
	return mask
}

// zeroBytes sets the high bit of exactly those bytes of x that are zero. Unlike
// the classic (x-0x01..)&^x&0x80.. trick it has no false positives, so the mask
// can be inverted.
func zeroBytes(x uint64) uint64 {
	y := (x & low7Bits) + low7Bits
	return ^(y | x | low7Bits)
}

func load64(s string, i int) uint64 {
	_ = s[i+7]
	return uint64(s[i]) | uint64(s[i+1])<<8 | uint64(s[i+2])<<16 | uint64(s[i+3])<<24 |
		uint64(s[i+4])<<32 | uint64(s[i+5])<<40 | uint64(s[i+6])<<48 | uint64(s[i+7])<<56
}
