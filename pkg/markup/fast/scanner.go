// Package fast implements the markup event scanner on top of vectorized token
// search.
//
// The grammar is identical to markup.Scanner. Delimiters are located with
// simd.IndexAny over small byte sets instead of stepping one rune at a time.
// Every delimiter is ASCII, so multi-byte runes in names, text and values never
// alias one. Unicode whitespace is found by adding the lead bytes of the
// recognized non-ASCII spaces to the sets and confirming each hit with a decode.
// For valid UTF-8 input the event stream, including errors and their offsets,
// matches markup.Scanner exactly.
package fast

import (
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/xml1/pkg/markup"
	"github.com/yaklabco/xml1/pkg/simd"
)

// Lead bytes of every non-ASCII code point markup.IsSpace accepts.
const (
	leadLatin1      = 0xC2 // U+00A0
	leadPunctuation = 0xE2 // U+2000..U+202F
	leadCJK         = 0xE3 // U+3000
)

//nolint:gochecknoglobals // Read-only delimiter tables.
var (
	spaceSet     = simd.NewByteSet(' ', '\t', '\n', '\r')
	textSet      = simd.NewByteSet('\n', '<')
	nameSet      = simd.NewByteSet(' ', '\t', '\n', '\r', '>', '/', leadLatin1, leadPunctuation, leadCJK)
	attrNameSet  = simd.NewByteSet(' ', '\t', '\n', '\r', '>', '/', '=', leadLatin1, leadPunctuation, leadCJK)
	closeNameSet = simd.NewByteSet(' ', '\t', '\n', '\r', '>', leadLatin1, leadPunctuation, leadCJK)
	valueSet     = simd.NewByteSet('"', '\\')
	closerSet    = simd.NewByteSet('>')
)

type state uint8

const (
	stateDocument state = iota
	stateElement
)

var _ markup.Source = (*Scanner)(nil)

// Scanner is the vectorized scanner. The zero value is not usable; call New.
type Scanner struct {
	src   string
	pos   int
	opts  markup.Options
	state state
	done  bool
	err   error
}

// New returns a Scanner over src in document mode.
func New(src string, opts markup.Options) *Scanner {
	return &Scanner{src: src, opts: opts}
}

// Reset rewinds the scanner to the start of src, keeping its options.
func (s *Scanner) Reset(src string) {
	*s = Scanner{src: src, opts: s.opts}
}

// Offset returns the current byte offset into the input.
func (s *Scanner) Offset() int {
	return s.pos
}

// Next returns the next event. Errors and EndOfInput are sticky.
func (s *Scanner) Next() (markup.Event, error) {
	if s.err != nil {
		return markup.Event{}, s.err
	}
	if s.done {
		return markup.EOF(), nil
	}

	var (
		ev  markup.Event
		err error
	)
	if s.state == stateElement {
		ev, err = s.element()
	} else {
		ev, err = s.document()
	}

	if err != nil {
		s.err = err
		return markup.Event{}, err
	}
	if ev.Kind == markup.EndOfInput {
		s.done = true
	}
	return ev, nil
}

func (s *Scanner) document() (markup.Event, error) {
	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			return markup.EOF(), nil
		}
		if s.src[s.pos] != '<' {
			return s.text(), nil
		}

		rest := s.src[s.pos:]
		switch {
		case strings.HasPrefix(rest, "</"):
			s.pos += len("</")
			return s.closeTag()
		case strings.HasPrefix(rest, "<!--"):
			s.pos += len("<!--")
			if ev, ok := s.comment(); ok {
				return ev, nil
			}
		default:
			s.pos++
			return s.openTag()
		}
	}
}

func (s *Scanner) element() (markup.Event, error) {
	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			return markup.Event{}, markup.NewSyntaxError(s.pos, 0, markup.ErrUnexpectedEndOfInput)
		}

		switch s.src[s.pos] {
		case '<':
			if strings.HasPrefix(s.src[s.pos:], "<!") {
				s.pos += len("<!")
				for i := 0; i < 2 && s.pos < len(s.src) && s.src[s.pos] == '-'; i++ {
					s.pos++
				}
				if ev, ok := s.comment(); ok {
					return ev, nil
				}
				continue
			}
			s.pos++
			return markup.Event{}, s.unexpected()
		case '>':
			s.pos++
			s.state = stateDocument
			return s.document()
		case '/':
			s.pos++
			if s.pos < len(s.src) && s.src[s.pos] == '>' {
				s.pos++
				s.state = stateDocument
				return markup.SelfClose(), nil
			}
			return markup.Event{}, s.unexpected()
		default:
			return s.attr()
		}
	}
}

func (s *Scanner) unexpected() error {
	if s.pos >= len(s.src) {
		return markup.NewSyntaxError(s.pos, 0, markup.ErrUnexpectedEndOfInput)
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return markup.NewSyntaxError(s.pos, r, markup.ErrUnexpectedChar)
}

// skipSpace advances past markup.IsSpace runes.
func (s *Scanner) skipSpace() {
	for s.pos < len(s.src) {
		idx := simd.IndexNotAny(s.src[s.pos:], &spaceSet)
		if idx < 0 {
			s.pos = len(s.src)
			return
		}
		s.pos += idx
		if s.src[s.pos] < utf8.RuneSelf {
			return
		}
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !markup.IsSpace(r) {
			return
		}
		s.pos += size
	}
}

// scanTo advances to the first byte of set that ends the current token. A hit
// on a non-ASCII lead byte only ends the token when the rune is whitespace.
func (s *Scanner) scanTo(set *simd.ByteSet) {
	for s.pos < len(s.src) {
		idx := simd.IndexAny(s.src[s.pos:], set)
		if idx < 0 {
			s.pos = len(s.src)
			return
		}
		s.pos += idx
		if s.src[s.pos] < utf8.RuneSelf {
			return
		}
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if markup.IsSpace(r) {
			return
		}
		s.pos += size
	}
}

func (s *Scanner) text() markup.Event {
	start := s.pos
	s.scanTo(&textSet)
	return markup.TextEvent(markup.TrimRightSpace(s.src[start:s.pos]))
}

func (s *Scanner) openTag() (markup.Event, error) {
	start := s.pos
	s.scanTo(&nameSet)
	if s.pos == start {
		if s.pos >= len(s.src) {
			return markup.Event{}, markup.NewSyntaxError(s.pos, 0, markup.ErrUnexpectedEndOfInput)
		}
		return markup.Event{}, markup.NewSyntaxError(start, 0, markup.ErrMissingElementName)
	}

	s.state = stateElement
	return markup.Push(s.src[start:s.pos]), nil
}

func (s *Scanner) closeTag() (markup.Event, error) {
	start := s.pos
	s.scanTo(&closeNameSet)
	if s.opts.CloseNames != markup.CloseNamePermissive {
		// The span stops at whitespace or '>'; strict names also stop at the
		// first rune outside the name alphabet, which can never be a valid '>'.
		for off, r := range s.src[start:s.pos] {
			if !markup.IsStrictNameChar(r) {
				s.pos = start + off
				return markup.Event{}, markup.NewSyntaxError(s.pos, r, markup.ErrUnexpectedChar)
			}
		}
	}
	name := s.src[start:s.pos]

	s.skipSpace()
	if s.pos >= len(s.src) {
		return markup.Event{}, markup.NewSyntaxError(s.pos, 0, markup.ErrUnexpectedEndOfInput)
	}
	if s.src[s.pos] != '>' {
		return markup.Event{}, s.unexpected()
	}
	s.pos++

	s.state = stateDocument
	return markup.Pop(name), nil
}

func (s *Scanner) attr() (markup.Event, error) {
	start := s.pos
	s.scanTo(&attrNameSet)
	if s.pos == start {
		return markup.Event{}, markup.NewSyntaxError(start, 0, markup.ErrMissingAttributeName)
	}
	name := s.src[start:s.pos]

	s.skipSpace()
	if s.pos >= len(s.src) || s.src[s.pos] != '=' {
		return markup.BoolAttr(name), nil
	}
	s.pos++
	s.skipSpace()

	if s.pos >= len(s.src) {
		return markup.Event{}, markup.NewSyntaxError(s.pos, 0, markup.ErrUnexpectedEndOfInput)
	}
	if s.src[s.pos] != '"' {
		return markup.Event{}, s.unexpected()
	}
	quote := s.pos
	s.pos++

	value := s.pos
	for {
		idx := simd.IndexAny(s.src[s.pos:], &valueSet)
		if idx < 0 {
			s.pos = len(s.src)
			return markup.Event{}, markup.NewSyntaxError(quote, 0, markup.ErrUnterminatedAttributeValue)
		}
		s.pos += idx
		if s.src[s.pos] == '"' {
			v := s.src[value:s.pos]
			s.pos++
			return markup.ValueAttr(name, v), nil
		}

		// Backslash: skip it and the next byte. A multi-byte rune leaves only
		// continuation bytes behind, and those never match the value set.
		s.pos++
		if s.pos >= len(s.src) {
			return markup.Event{}, markup.NewSyntaxError(quote, 0, markup.ErrUnterminatedAttributeValue)
		}
		s.pos++
	}
}

// comment finds the first "-->" after "<!--" by locating each '>' and checking
// the two bytes before it.
func (s *Scanner) comment() (markup.Event, bool) {
	start := s.pos
	from := s.pos
	for from < len(s.src) {
		idx := simd.IndexAny(s.src[from:], &closerSet)
		if idx < 0 {
			break
		}
		gt := from + idx
		if gt-2 >= start && s.src[gt-2] == '-' && s.src[gt-1] == '-' {
			body := s.src[start : gt-2]
			s.pos = gt + 1
			if s.opts.EmitComments {
				return markup.CommentEvent(body), true
			}
			return markup.Event{}, false
		}
		from = gt + 1
	}

	body := s.src[start:]
	s.pos = len(s.src)
	s.done = true
	if s.opts.EmitComments {
		return markup.CommentEvent(body), true
	}
	return markup.EOF(), true
}
