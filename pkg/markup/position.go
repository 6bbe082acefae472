package markup

import (
	"sort"
	"strings"
)

// Position is a 1-based line and column. Columns count bytes, not runes.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Locate converts a byte offset in src into a Position. Offsets past the end are
// clamped to the end of the input. It scans src once; use a LineIndex for
// repeated lookups.
func Locate(src string, offset int) Position {
	if offset < 0 {
		return Position{}
	}
	if offset > len(src) {
		offset = len(src)
	}
	head := src[:offset]
	line := strings.Count(head, "\n") + 1
	lineStart := strings.LastIndexByte(head, '\n') + 1
	return Position{Line: line, Column: offset - lineStart + 1}
}

// LineIndex maps byte offsets to positions with a binary search over line starts.
// Both LF and CRLF line endings are handled; the CR belongs to the line it ends.
type LineIndex struct {
	starts []int
	size   int
}

// NewLineIndex builds the line table for src.
func NewLineIndex(src string) *LineIndex {
	starts := make([]int, 1, strings.Count(src, "\n")+1)
	for idx := 0; idx < len(src); idx++ {
		if src[idx] == '\n' {
			starts = append(starts, idx+1)
		}
	}
	return &LineIndex{starts: starts, size: len(src)}
}

// LineCount returns the number of lines, counting a final line without a newline.
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// Position converts a byte offset to a 1-based line and column.
// Returns the zero Position if the offset is negative.
func (li *LineIndex) Position(offset int) Position {
	if offset < 0 {
		return Position{}
	}
	if offset > li.size {
		offset = li.size
	}

	// First line start strictly greater than offset, minus one.
	lineIdx := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	}) - 1

	return Position{Line: lineIdx + 1, Column: offset - li.starts[lineIdx] + 1}
}

// LineStart returns the byte offset where a 1-based line begins, or false when
// the line does not exist.
func (li *LineIndex) LineStart(line int) (int, bool) {
	if line < 1 || line > len(li.starts) {
		return 0, false
	}
	return li.starts[line-1], true
}
