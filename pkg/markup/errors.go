package markup

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors carried by SyntaxError. Match them with errors.Is.
var (
	ErrMissingElementName         = errors.New("missing element name")
	ErrMissingAttributeName       = errors.New("missing attribute name")
	ErrUnexpectedChar             = errors.New("unexpected character")
	ErrUnexpectedEndOfInput       = errors.New("unexpected end of input")
	ErrUnterminatedAttributeValue = errors.New("unterminated attribute value")
)

// SyntaxError reports a fatal scanning error. Once a Source returns a SyntaxError
// it keeps returning the same error.
type SyntaxError struct {
	// Offset is the byte offset in the input where the problem was detected.
	Offset int

	// Char is the offending character for ErrUnexpectedChar, zero otherwise.
	Char rune

	// Err is one of the sentinel errors above.
	Err error
}

// Error formats the error with its offset.
func (e *SyntaxError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if errors.Is(e.Err, ErrUnexpectedChar) {
		return fmt.Sprintf("markup syntax error at offset %d: %v %s", e.Offset, e.Err, strconv.QuoteRune(e.Char))
	}
	return fmt.Sprintf("markup syntax error at offset %d: %v", e.Offset, e.Err)
}

// Unwrap exposes the sentinel error.
func (e *SyntaxError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func syntaxError(offset int, err error) *SyntaxError {
	return &SyntaxError{Offset: offset, Err: err}
}

func unexpectedChar(offset int, r rune) *SyntaxError {
	return &SyntaxError{Offset: offset, Char: r, Err: ErrUnexpectedChar}
}

// NewSyntaxError builds a SyntaxError for alternative Source implementations, so
// every engine reports failures with the same type.
func NewSyntaxError(offset int, char rune, err error) *SyntaxError {
	return &SyntaxError{Offset: offset, Char: char, Err: err}
}
