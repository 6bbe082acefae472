package markup

import "unicode"

// state selects which grammar rules apply to the next event.
type state uint8

const (
	stateDocument state = iota
	stateElement
)

// Compile-time interface check.
var _ Source = (*Scanner)(nil)

// Scanner is the portable, Unicode-aware reference scanner.
//
// A Scanner must not be used from several goroutines at once. Independent
// scanners over the same input are safe to run in parallel.
type Scanner struct {
	in    Input
	opts  Options
	state state
	done  bool
	err   error
}

// NewScanner returns a Scanner over src in document mode.
func NewScanner(src string, opts Options) *Scanner {
	return &Scanner{in: NewInput(src), opts: opts}
}

// Reset rewinds the scanner to the start of src, keeping its options.
func (s *Scanner) Reset(src string) {
	*s = Scanner{in: NewInput(src), opts: s.opts}
}

// Offset returns the current byte offset into the input.
func (s *Scanner) Offset() int {
	return s.in.Offset()
}

// Next returns the next event. See Source.
func (s *Scanner) Next() (Event, error) {
	if s.err != nil {
		return Event{}, s.err
	}
	if s.done {
		return EOF(), nil
	}

	var (
		ev  Event
		err error
	)
	if s.state == stateElement {
		ev, err = s.element()
	} else {
		ev, err = s.document()
	}

	if err != nil {
		s.err = err
		return Event{}, err
	}
	if ev.Kind == EndOfInput {
		s.done = true
	}
	return ev, nil
}

// document scans at the top level, between tags.
func (s *Scanner) document() (Event, error) {
	for {
		s.in.SkipSpace()

		ch, ok := s.in.Head()
		if !ok {
			return EOF(), nil
		}
		if ch != '<' {
			return s.text(), nil
		}

		switch {
		case s.in.HasPrefix("</"):
			s.in.Skip(len("</"))
			return s.closeTag()
		case s.in.HasPrefix("<!--"):
			s.in.Skip(len("<!--"))
			if ev, ok := s.comment(); ok {
				return ev, nil
			}
		default:
			s.in.Skip(len("<"))
			return s.openTag()
		}
	}
}

// element scans inside an open tag, after its name.
func (s *Scanner) element() (Event, error) {
	for {
		s.in.SkipSpace()

		ch, ok := s.in.Head()
		if !ok {
			return Event{}, syntaxError(s.in.Offset(), ErrUnexpectedEndOfInput)
		}

		switch ch {
		case '<':
			// Inside a tag "<!" alone opens a comment.
			if s.in.HasPrefix("<!") {
				s.in.Skip(len("<!"))
				for i := 0; i < 2 && s.in.HasPrefix("-"); i++ {
					s.in.Skip(1)
				}
				if ev, ok := s.comment(); ok {
					return ev, nil
				}
				continue
			}
			s.in.Skip(len("<"))
			return Event{}, s.unexpected()
		case '>':
			s.in.Next()
			s.state = stateDocument
			return s.document()
		case '/':
			s.in.Next()
			if next, ok := s.in.Head(); ok && next == '>' {
				s.in.Next()
				s.state = stateDocument
				return SelfClose(), nil
			}
			return Event{}, s.unexpected()
		default:
			return s.attr()
		}
	}
}

// unexpected reports the character at the current position, or the end of input.
func (s *Scanner) unexpected() error {
	ch, ok := s.in.Head()
	if !ok {
		return syntaxError(s.in.Offset(), ErrUnexpectedEndOfInput)
	}
	return unexpectedChar(s.in.Offset(), ch)
}

// text collects a run up to a newline, '<' or the end of input.
func (s *Scanner) text() Event {
	start := s.in.Cursor()
	for {
		ch, ok := s.in.Head()
		if !ok || ch == '\n' || ch == '<' {
			break
		}
		s.in.Next()
	}
	return TextEvent(TrimRightSpace(s.in.Substring(start)))
}

// openTag reads an element name after '<' and switches to element mode.
func (s *Scanner) openTag() (Event, error) {
	start := s.in.Cursor()
	for {
		ch, ok := s.in.Head()
		if !ok || ch == '>' || ch == '/' || IsSpace(ch) {
			break
		}
		s.in.Next()
	}

	name := s.in.Substring(start)
	if name == "" {
		if s.in.AtEnd() {
			return Event{}, syntaxError(s.in.Offset(), ErrUnexpectedEndOfInput)
		}
		return Event{}, syntaxError(start.Offset(), ErrMissingElementName)
	}

	s.state = stateElement
	return Push(name), nil
}

// closeTag reads `name ws* >` after "</".
func (s *Scanner) closeTag() (Event, error) {
	start := s.in.Cursor()
	for {
		ch, ok := s.in.Head()
		if !ok || !s.isCloseNameChar(ch) {
			break
		}
		s.in.Next()
	}
	name := s.in.Substring(start)

	s.in.SkipSpace()
	ch, ok := s.in.Head()
	if !ok {
		return Event{}, syntaxError(s.in.Offset(), ErrUnexpectedEndOfInput)
	}
	if ch != '>' {
		return Event{}, unexpectedChar(s.in.Offset(), ch)
	}
	s.in.Next()

	s.state = stateDocument
	return Pop(name), nil
}

func (s *Scanner) isCloseNameChar(ch rune) bool {
	if s.opts.CloseNames == CloseNamePermissive {
		return ch != '>' && !IsSpace(ch)
	}
	return IsStrictNameChar(ch)
}

// IsStrictNameChar reports whether ch may appear in a closing name under
// CloseNameStrict.
func IsStrictNameChar(ch rune) bool {
	if ch < 0x80 {
		return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' || ch == '_' || ch == '-'
	}
	return unicode.IsLetter(ch) || unicode.IsNumber(ch)
}

// attr reads one attribute: a name, optionally followed by `= "value"`.
func (s *Scanner) attr() (Event, error) {
	start := s.in.Cursor()
	for {
		ch, ok := s.in.Head()
		if !ok || ch == '=' || ch == '>' || ch == '/' || IsSpace(ch) {
			break
		}
		s.in.Next()
	}
	name := s.in.Substring(start)
	if name == "" {
		return Event{}, syntaxError(start.Offset(), ErrMissingAttributeName)
	}

	s.in.SkipSpace()
	if ch, ok := s.in.Head(); !ok || ch != '=' {
		return BoolAttr(name), nil
	}
	s.in.Next()
	s.in.SkipSpace()

	ch, ok := s.in.Head()
	if !ok {
		return Event{}, syntaxError(s.in.Offset(), ErrUnexpectedEndOfInput)
	}
	if ch != '"' {
		return Event{}, unexpectedChar(s.in.Offset(), ch)
	}
	quote := s.in.Offset()
	s.in.Next()

	value := s.in.Cursor()
	for {
		ch, ok := s.in.Head()
		if !ok {
			return Event{}, syntaxError(quote, ErrUnterminatedAttributeValue)
		}
		switch ch {
		case '"':
			v := s.in.Substring(value)
			s.in.Next()
			return ValueAttr(name, v), nil
		case '\\':
			s.in.Next()
			if s.in.AtEnd() {
				return Event{}, syntaxError(quote, ErrUnterminatedAttributeValue)
			}
			s.in.Next()
		default:
			s.in.Next()
		}
	}
}

// comment skips past the "-->" terminator after "<!--" has been consumed. It
// returns a Comment event when comments are emitted. An unterminated comment
// swallows the rest of the input and ends the scan.
func (s *Scanner) comment() (Event, bool) {
	start := s.in.Cursor()
	for !s.in.AtEnd() {
		if s.in.HasPrefix("-->") {
			body := s.in.Substring(start)
			s.in.Skip(len("-->"))
			if s.opts.EmitComments {
				return CommentEvent(body), true
			}
			return Event{}, false
		}
		s.in.Next()
	}

	body := s.in.Substring(start)
	s.done = true
	if s.opts.EmitComments {
		return CommentEvent(body), true
	}
	return EOF(), true
}
