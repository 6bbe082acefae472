//go:build !amd64

package simd

func indexChunks(s string, set *ByteSet, invert bool) int {
	return indexChunksSWAR(s, set, invert)
}

// Kernel names the chunk implementation in use.
func Kernel() string {
	return "swar"
}
