//go:build amd64

package simd

import "github.com/klauspost/cpuid/v2"

//nolint:gochecknoglobals // CPU features are probed once at start-up.
var canUseSSE2 = cpuid.CPU.Has(cpuid.SSE2)

// indexAnySSE2 is implemented in index_amd64.s. It scans whole 16-byte chunks
// and returns the index of the first byte whose set membership, XOR-ed with
// invert, is non-zero, or -1.
//
//go:noescape
func indexAnySSE2(s string, set *ByteSet, invert uint32) int

func indexChunks(s string, set *ByteSet, invert bool) int {
	if !canUseSSE2 {
		return indexChunksSWAR(s, set, invert)
	}
	var mask uint32
	if invert {
		mask = 0xFFFF
	}
	return indexAnySSE2(s, set, mask)
}

// Kernel names the chunk implementation in use.
func Kernel() string {
	if canUseSSE2 {
		return "sse2"
	}
	return "swar"
}
