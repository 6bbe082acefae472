// Package markup implements a zero-copy, allocation-free event scanner for a lenient
// XML-like markup dialect: elements, boolean and valued attributes, comments and text.
//
// A Scanner borrows the input string for its whole lifetime and every payload it
// returns is a substring of that input. There is no DOM, no entity expansion and
// no validation that closing names match their opening names.
package markup

import "strconv"

// Kind identifies the type of an Event.
type Kind uint8

const (
	// EndOfInput is the terminal sentinel; no further events follow.
	EndOfInput Kind = iota
	// PushElement opens an element.
	PushElement
	// PopElement closes an element, either explicitly (`</x>`) or by self-closing (`/>`).
	PopElement
	// Attr is an attribute of the most recently pushed element.
	Attr
	// Text is a run of non-markup content on a single line.
	Text
	// Comment is only produced when Options.EmitComments is set.
	Comment
)

// String returns a stable name for the kind.
func (k Kind) String() string {
	switch k {
	case EndOfInput:
		return "EndOfInput"
	case PushElement:
		return "PushElement"
	case PopElement:
		return "PopElement"
	case Attr:
		return "Attr"
	case Text:
		return "Text"
	case Comment:
		return "Comment"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Event is one structural result produced by a Source.
//
// Field usage by kind:
//   - PushElement: Name.
//   - PopElement: Name for `</name>`; SelfClosing set and Name empty for `/>`.
//   - Attr: Name, plus Value when HasValue is set. Escapes in Value are left raw.
//   - Text, Comment: Value.
type Event struct {
	Kind        Kind
	Name        string
	Value       string
	HasValue    bool
	SelfClosing bool
}

// Push returns a PushElement event.
func Push(name string) Event {
	return Event{Kind: PushElement, Name: name}
}

// Pop returns a PopElement event for an explicit closing tag.
func Pop(name string) Event {
	return Event{Kind: PopElement, Name: name}
}

// SelfClose returns the PopElement event produced by `/>`.
func SelfClose() Event {
	return Event{Kind: PopElement, SelfClosing: true}
}

// BoolAttr returns an attribute event without a value.
func BoolAttr(name string) Event {
	return Event{Kind: Attr, Name: name}
}

// ValueAttr returns an attribute event carrying a raw quoted value.
func ValueAttr(name, value string) Event {
	return Event{Kind: Attr, Name: name, Value: value, HasValue: true}
}

// TextEvent returns a Text event.
func TextEvent(text string) Event {
	return Event{Kind: Text, Value: text}
}

// CommentEvent returns a Comment event.
func CommentEvent(text string) Event {
	return Event{Kind: Comment, Value: text}
}

// EOF returns the EndOfInput event.
func EOF() Event {
	return Event{Kind: EndOfInput}
}

// String formats the event for debugging and event dumps.
func (e Event) String() string {
	switch e.Kind {
	case PushElement:
		return "PushElement " + e.Name
	case PopElement:
		if e.SelfClosing {
			return "PopElement /"
		}
		return "PopElement " + e.Name
	case Attr:
		if !e.HasValue {
			return "Attr " + e.Name
		}
		return "Attr " + e.Name + "=" + strconv.Quote(e.Value)
	case Text:
		return "Text " + strconv.Quote(e.Value)
	case Comment:
		return "Comment " + strconv.Quote(e.Value)
	default:
		return e.Kind.String()
	}
}
