package scan

import (
	"errors"
	"fmt"

	"github.com/yaklabco/xml1/pkg/markup"
)

// ErrUnbalanced is wrapped by BalanceError.
var ErrUnbalanced = errors.New("unbalanced elements")

// Stats accounts for one full scan.
type Stats struct {
	Bytes       int `json:"bytes"`
	Elements    int `json:"elements"`
	Closes      int `json:"closes"`
	SelfClosing int `json:"selfClosing"`
	Attrs       int `json:"attrs"`
	Texts       int `json:"texts"`
	Comments    int `json:"comments"`

	// Declarations counts pushes of "<?...>" and "<!...>" names. They are
	// included in Elements but never change Depth, since they have no
	// closing tag.
	Declarations int `json:"declarations"`

	// MaxDepth is the deepest element nesting seen.
	MaxDepth int `json:"maxDepth"`

	// Depth is the nesting level at the end of the scan. It is zero for a
	// balanced document.
	Depth int `json:"depth"`

	// Underflow is set when a closing tag appeared at depth zero;
	// UnderflowOffset is the input offset just after it.
	Underflow       bool `json:"underflow,omitempty"`
	UnderflowOffset int  `json:"underflowOffset,omitempty"`

	// declOpen is set while the tag of a declaration is still open.
	declOpen bool
}

// Events returns the number of events seen, excluding EndOfInput.
func (s Stats) Events() int {
	return s.Elements + s.Closes + s.Attrs + s.Texts + s.Comments
}

// Add merges other into s. Depth values are summed; MaxDepth keeps the maximum.
func (s *Stats) Add(other Stats) {
	s.Bytes += other.Bytes
	s.Elements += other.Elements
	s.Closes += other.Closes
	s.SelfClosing += other.SelfClosing
	s.Attrs += other.Attrs
	s.Texts += other.Texts
	s.Comments += other.Comments
	s.Declarations += other.Declarations
	s.MaxDepth = max(s.MaxDepth, other.MaxDepth)
	s.Depth += other.Depth
	if other.Underflow && !s.Underflow {
		s.Underflow = true
		s.UnderflowOffset = other.UnderflowOffset
	}
}

// Observe records one event at the given input offset.
func (s *Stats) Observe(ev markup.Event, offset int) {
	declOpen := s.declOpen
	s.declOpen = false

	switch ev.Kind {
	case markup.PushElement:
		s.Elements++
		if isDeclaration(ev.Name) {
			s.Declarations++
			s.declOpen = true
			return
		}
		s.Depth++
		s.MaxDepth = max(s.MaxDepth, s.Depth)
	case markup.PopElement:
		s.Closes++
		if ev.SelfClosing {
			s.SelfClosing++
			if declOpen {
				return
			}
		}
		if s.Depth == 0 {
			if !s.Underflow {
				s.Underflow = true
				s.UnderflowOffset = offset
			}
			return
		}
		s.Depth--
	case markup.Attr:
		s.Attrs++
		s.declOpen = declOpen
	case markup.Text:
		s.Texts++
	case markup.Comment:
		s.Comments++
		s.declOpen = declOpen
	case markup.EndOfInput:
	}
}

// isDeclaration reports whether an element name belongs to a processing
// instruction or markup declaration.
func isDeclaration(name string) bool {
	return name != "" && (name[0] == '?' || name[0] == '!')
}

// Balance returns a *BalanceError when the scan did not return to depth zero or
// closed more elements than it opened.
func (s Stats) Balance() error {
	if s.Depth == 0 && !s.Underflow {
		return nil
	}
	return &BalanceError{Depth: s.Depth, Underflow: s.Underflow, Offset: s.UnderflowOffset}
}

// BalanceError describes an unbalanced element structure.
type BalanceError struct {
	// Depth is the number of elements still open at the end of input.
	Depth int

	// Underflow reports a closing tag without an open element at Offset.
	Underflow bool
	Offset    int
}

func (e *BalanceError) Error() string {
	if e.Underflow {
		return fmt.Sprintf("%v: closing tag without open element at offset %d", ErrUnbalanced, e.Offset)
	}
	return fmt.Sprintf("%v: %d element(s) left open", ErrUnbalanced, e.Depth)
}

func (e *BalanceError) Unwrap() error {
	return ErrUnbalanced
}

// Scan drives source to the end and returns its statistics. On a syntax error
// the statistics up to the failing event are returned with the error.
func Scan(source markup.Source) (Stats, error) {
	var stats Stats
	err := stats.Consume(source, 0)
	return stats, err
}

// Consume drives source to the end, adding its events to s. Offsets recorded
// for underflow are shifted by base, so several fragments of one document can
// share a depth counter.
func (s *Stats) Consume(source markup.Source, base int) error {
	start := source.Offset()
	err := markup.Walk(source, func(ev markup.Event) error {
		s.Observe(ev, base+source.Offset())
		return nil
	})
	s.Bytes += source.Offset() - start
	return err
}

// ScanString scans src with the given engine.
func ScanString(engine Engine, src string, opts markup.Options) (Stats, error) {
	return Scan(New(engine, src, opts))
}
