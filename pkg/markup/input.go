package markup

import "unicode/utf8"

// Input is a read position over an immutable string that advances one Unicode
// scalar value at a time.
type Input struct {
	src string
	pos int
}

// Cursor is a snapshot of an Input position. It is only meaningful for the Input
// that issued it.
type Cursor struct {
	owner *Input
	off   int
}

// Offset returns the byte offset recorded by the cursor.
func (c Cursor) Offset() int {
	return c.off
}

// NewInput returns an Input positioned at the start of src.
func NewInput(src string) Input {
	return Input{src: src}
}

// Source returns the whole input string.
func (in *Input) Source() string {
	return in.src
}

// Offset returns the current byte offset.
func (in *Input) Offset() int {
	return in.pos
}

// AtEnd reports whether the whole input has been consumed.
func (in *Input) AtEnd() bool {
	return in.pos >= len(in.src)
}

// Head returns the scalar value at the current position, or false at the end.
func (in *Input) Head() (rune, bool) {
	if in.pos >= len(in.src) {
		return 0, false
	}
	if c := in.src[in.pos]; c < utf8.RuneSelf {
		return rune(c), true
	}
	r, _ := utf8.DecodeRuneInString(in.src[in.pos:])
	return r, true
}

// Next advances past exactly one scalar value. The width is taken from the
// UTF-8 lead byte so continuation bytes are skipped without decoding.
func (in *Input) Next() {
	if in.pos >= len(in.src) {
		return
	}
	in.pos += leadWidth(in.src[in.pos])
	if in.pos > len(in.src) {
		in.pos = len(in.src)
	}
}

// leadWidth returns the length of the UTF-8 sequence introduced by c. Stray
// continuation bytes count as one byte.
func leadWidth(c byte) int {
	switch {
	case c < 0xC0:
		return 1
	case c < 0xE0:
		return 2
	case c < 0xF0:
		return 3
	default:
		return 4
	}
}

// HasPrefix reports whether the unread input starts with prefix.
func (in *Input) HasPrefix(prefix string) bool {
	return len(in.src)-in.pos >= len(prefix) && in.src[in.pos:in.pos+len(prefix)] == prefix
}

// Skip advances n bytes. It is meant for ASCII prefixes already matched with HasPrefix.
func (in *Input) Skip(n int) {
	in.pos += n
	if in.pos > len(in.src) {
		in.pos = len(in.src)
	}
}

// SkipToEnd consumes the rest of the input.
func (in *Input) SkipToEnd() {
	in.pos = len(in.src)
}

// SkipSpace advances past every character classified by IsSpace.
func (in *Input) SkipSpace() {
	for in.pos < len(in.src) {
		c := in.src[in.pos]
		if c < utf8.RuneSelf {
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				return
			}
			in.pos++
			continue
		}
		r, size := utf8.DecodeRuneInString(in.src[in.pos:])
		if !IsSpace(r) {
			return
		}
		in.pos += size
	}
}

// Cursor snapshots the current position.
func (in *Input) Cursor() Cursor {
	return Cursor{owner: in, off: in.pos}
}

// Substring returns the input between from and the current position.
//
// It panics when from was issued by another Input or lies past the current
// position: both are programming errors.
func (in *Input) Substring(from Cursor) string {
	if from.owner != in {
		panic("markup: cursor used with a different input")
	}
	if from.off > in.pos {
		panic("markup: cursor is ahead of the input position")
	}
	return in.src[from.off:in.pos]
}

// Rest returns the unread input.
func (in *Input) Rest() string {
	return in.src[in.pos:]
}
