package pretty

import (
	"strconv"
	"strings"

	"github.com/yaklabco/xml1/pkg/markup"
)

// AppendEvent appends one event dump line to dst: the input offset after the
// event, a tab, the event, and a newline.
func (s *Styles) AppendEvent(dst []byte, offset int, ev markup.Event) []byte {
	if !s.color {
		dst = strconv.AppendInt(dst, int64(offset), 10)
		dst = append(dst, '\t')
		dst = append(dst, ev.String()...)
		return append(dst, '\n')
	}

	kind := ev.Kind.String()
	dst = append(dst, s.Offset.Render(strconv.Itoa(offset))...)
	dst = append(dst, '\t')
	dst = append(dst, s.EventStyle(ev.Kind).Render(kind)...)
	dst = append(dst, strings.TrimPrefix(ev.String(), kind)...)
	return append(dst, '\n')
}

// AppendError appends the line that ends an event dump on a syntax error.
// Only the message is styled so the tab separator survives rendering.
func (s *Styles) AppendError(dst []byte, offset int, message string) []byte {
	line := "error: " + message
	if !s.color {
		dst = strconv.AppendInt(dst, int64(offset), 10)
		dst = append(dst, '\t')
		dst = append(dst, line...)
		return append(dst, '\n')
	}

	dst = append(dst, s.Offset.Render(strconv.Itoa(offset))...)
	dst = append(dst, '\t')
	dst = append(dst, s.Error.Render(line)...)
	return append(dst, '\n')
}
