// Package markuptest holds the conformance suite shared by every markup.Source
// implementation.
package markuptest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xml1/pkg/markup"
)

// Factory builds a Source under test.
type Factory func(src string, opts markup.Options) markup.Source

// Case is one input with its expected event stream. When Err is set the stream
// must end with a *markup.SyntaxError wrapping Err at Offset, after Events.
type Case struct {
	Name    string
	Input   string
	Options markup.Options
	Events  []markup.Event
	Err     error
	Offset  int
	Char    rune
}

var (
	emit       = markup.Options{EmitComments: true}
	permissive = markup.Options{CloseNames: markup.CloseNamePermissive}
)

// Cases returns the conformance cases.
func Cases() []Case {
	longName := strings.Repeat("n", 37)
	longKey := strings.Repeat("k", 20)
	longValue := strings.Repeat(`v\"`, 11)
	wideText := strings.Repeat("é", 20)

	return []Case{
		// Elements.
		{Name: "self closing", Input: `<r/>`, Events: events(markup.Push("r"), markup.SelfClose())},
		{Name: "self closing with space", Input: `<r />`, Events: events(markup.Push("r"), markup.SelfClose())},
		{
			Name:  "nested",
			Input: `<a><b x="1"/><c>t</c></a>`,
			Events: events(
				markup.Push("a"), markup.Push("b"), markup.ValueAttr("x", "1"), markup.SelfClose(),
				markup.Push("c"), markup.TextEvent("t"), markup.Pop("c"), markup.Pop("a"),
			),
		},
		{Name: "closing tag trailing space", Input: "<a></a  \t>", Events: events(markup.Push("a"), markup.Pop("a"))},
		{Name: "empty closing name", Input: `</>`, Events: events(markup.Pop(""))},
		{Name: "bang element in document", Input: `<!x>`, Events: events(markup.Push("!x"))},
		{Name: "mismatched names are not checked", Input: `<a></b>`, Events: events(markup.Push("a"), markup.Pop("b"))},

		// Attributes.
		{
			Name:   "valued attribute",
			Input:  `<r min="0, 0"></r>`,
			Events: events(markup.Push("r"), markup.ValueAttr("min", "0, 0"), markup.Pop("r")),
		},
		{
			Name:  "boolean then valued",
			Input: `<r toggle color="#fff"></r>`,
			Events: events(
				markup.Push("r"), markup.BoolAttr("toggle"), markup.ValueAttr("color", "#fff"), markup.Pop("r"),
			),
		},
		{
			Name:   "escapes pass through raw",
			Input:  `<a v="x\"y\\zA"/>`,
			Events: events(markup.Push("a"), markup.ValueAttr("v", `x\"y\\zA`), markup.SelfClose()),
		},
		{
			Name:   "escaped multi-byte rune",
			Input:  `<a v="\é"/>`,
			Events: events(markup.Push("a"), markup.ValueAttr("v", `\é`), markup.SelfClose()),
		},
		{
			Name:   "spaces around equals",
			Input:  "<a v = \"1\"\nw/>",
			Events: events(markup.Push("a"), markup.ValueAttr("v", "1"), markup.BoolAttr("w"), markup.SelfClose()),
		},
		{
			Name:   "empty value",
			Input:  `<a v=""/>`,
			Events: events(markup.Push("a"), markup.ValueAttr("v", ""), markup.SelfClose()),
		},
		{
			Name:   "value keeps markup characters",
			Input:  `<a v="<b/> -->"/>`,
			Events: events(markup.Push("a"), markup.ValueAttr("v", "<b/> -->"), markup.SelfClose()),
		},
		{Name: "bang attribute", Input: `<a !b>`, Events: events(markup.Push("a"), markup.BoolAttr("!b"))},

		// Text.
		{Name: "empty input", Input: ""},
		{Name: "whitespace only", Input: "  \n\t \r\n"},
		{Name: "bare text lines", Input: "  text\n only  ", Events: events(markup.TextEvent("text"), markup.TextEvent("only"))},
		{Name: "crlf lines", Input: "one\r\ntwo", Events: events(markup.TextEvent("one"), markup.TextEvent("two"))},
		{
			Name:   "text before tag",
			Input:  "hello <a/>",
			Events: events(markup.TextEvent("hello"), markup.Push("a"), markup.SelfClose()),
		},
		{
			Name:  "comment splits text",
			Input: `<a>  some <!-- not --> text  </a>`,
			Events: events(
				markup.Push("a"), markup.TextEvent("some"), markup.TextEvent("text"), markup.Pop("a"),
			),
		},
		{Name: "line separator is not a line break", Input: "a\u2028b", Events: events(markup.TextEvent("a\u2028b"))},

		// Unicode.
		{
			Name:  "multi-byte names and values",
			Input: `<名前 属性="値">テキスト</名前>`,
			Events: events(
				markup.Push("名前"), markup.ValueAttr("属性", "値"), markup.TextEvent("テキスト"), markup.Pop("名前"),
			),
		},
		{
			Name:   "unicode whitespace separates",
			Input:  "<a\u00A0b=\"1\"\u3000/>",
			Events: events(markup.Push("a"), markup.ValueAttr("b", "1"), markup.SelfClose()),
		},
		{
			Name:   "right-to-left mark is trimmed",
			Input:  "<p>שלום\u200F\u00A0</p>",
			Events: events(markup.Push("p"), markup.TextEvent("שלום"), markup.Pop("p")),
		},
		{Name: "leading ideographic space skipped", Input: "\u3000\u2009x", Events: events(markup.TextEvent("x"))},
		{
			Name:   "non-space runes sharing space lead bytes",
			Input:  "<a¢€〒 x¢=\"1\"/>",
			Events: events(markup.Push("a¢€〒"), markup.ValueAttr("x¢", "1"), markup.SelfClose()),
		},
		{
			Name:   "vertical tab is not whitespace",
			Input:  "\vx",
			Events: events(markup.TextEvent("\vx")),
		},

		// Chunk boundaries.
		{
			Name:   "long tokens",
			Input:  "<" + longName + " " + longKey + `="` + longValue + `"/>`,
			Events: events(markup.Push(longName), markup.ValueAttr(longKey, longValue), markup.SelfClose()),
		},
		{
			Name:   "long text with trailing unicode space",
			Input:  wideText + "\u00A0\u2003\n" + strings.Repeat(" ", 33) + "x",
			Events: events(markup.TextEvent(wideText), markup.TextEvent("x")),
		},
		{
			Name:   "comment terminator after a chunk",
			Input:  "<!--" + strings.Repeat("a", 30) + "-->x",
			Events: events(markup.TextEvent("x")),
		},

		// Comments.
		{Name: "comment only", Input: `<!--<r></r>-->`},
		{Name: "unterminated comment", Input: `<!--<r></r>`},
		{Name: "empty comment", Input: `<!---->`},
		{Name: "comment needs full terminator", Input: `<!-->x`},
		{Name: "dashes inside comment", Input: "<!-- a -- b -->x", Events: events(markup.TextEvent("x"))},
		{
			Name:   "comment inside open tag",
			Input:  `<a <!-- c --> b="1">`,
			Events: events(markup.Push("a"), markup.ValueAttr("b", "1")),
		},
		{
			Name:   "bang opens comment inside open tag",
			Input:  `<a <! c --> b="1"/>`,
			Events: events(markup.Push("a"), markup.ValueAttr("b", "1"), markup.SelfClose()),
		},
		{Name: "unterminated bang inside open tag", Input: `<a <!b>`, Events: events(markup.Push("a"))},
		{
			Name:    "bang comment body skips at most two dashes",
			Input:   `<a <!---x-->/>`,
			Options: emit,
			Events:  events(markup.Push("a"), markup.CommentEvent("-x"), markup.SelfClose()),
		},
		{
			Name:    "emitted comment",
			Input:   `<a><!-- hi --></a>`,
			Options: emit,
			Events:  events(markup.Push("a"), markup.CommentEvent(" hi "), markup.Pop("a")),
		},
		{
			Name:    "emitted comment inside open tag",
			Input:   `<a <!--x-->/>`,
			Options: emit,
			Events:  events(markup.Push("a"), markup.CommentEvent("x"), markup.SelfClose()),
		},
		{
			Name:    "emitted unterminated comment",
			Input:   `<a/><!-- rest`,
			Options: emit,
			Events:  events(markup.Push("a"), markup.SelfClose(), markup.CommentEvent(" rest")),
		},

		// Closing name modes.
		{
			Name:    "permissive closing name",
			Input:   `<a.b></a.b>`,
			Options: permissive,
			Events:  events(markup.Push("a.b"), markup.Pop("a.b")),
		},
		{
			Name:   "strict closing name",
			Input:  `<a.b></a.b>`,
			Events: events(markup.Push("a.b")),
			Err:    markup.ErrUnexpectedChar, Offset: 8, Char: '.',
		},
		{
			Name:  "strict closing name rejects symbols",
			Input: `</a¢>`,
			Err:   markup.ErrUnexpectedChar, Offset: 3, Char: '¢',
		},
		{
			Name:    "permissive closing name keeps slash",
			Input:   `<a></a/>`,
			Options: permissive,
			Events:  events(markup.Push("a"), markup.Pop("a/")),
		},

		// Errors.
		{Name: "missing element name", Input: `<>`, Err: markup.ErrMissingElementName, Offset: 1},
		{Name: "space before element name", Input: `< a>`, Err: markup.ErrMissingElementName, Offset: 1},
		{Name: "lone angle bracket", Input: `<`, Err: markup.ErrUnexpectedEndOfInput, Offset: 1},
		{Name: "unterminated open tag", Input: `<a`, Events: events(markup.Push("a")), Err: markup.ErrUnexpectedEndOfInput, Offset: 2},
		{
			Name: "unterminated value", Input: `<a b="1`, Events: events(markup.Push("a")),
			Err: markup.ErrUnterminatedAttributeValue, Offset: 5,
		},
		{
			Name: "dangling escape", Input: `<a b="1\`, Events: events(markup.Push("a")),
			Err: markup.ErrUnterminatedAttributeValue, Offset: 5,
		},
		{
			Name: "unquoted value", Input: `<a b=1>`, Events: events(markup.Push("a")),
			Err: markup.ErrUnexpectedChar, Offset: 5, Char: '1',
		},
		{
			Name: "value missing at end", Input: `<a b=`, Events: events(markup.Push("a")),
			Err: markup.ErrUnexpectedEndOfInput, Offset: 5,
		},
		{
			Name: "missing attribute name", Input: `<a =x>`, Events: events(markup.Push("a")),
			Err: markup.ErrMissingAttributeName, Offset: 3,
		},
		{
			Name: "slash not followed by closer", Input: `<a/x>`, Events: events(markup.Push("a")),
			Err: markup.ErrUnexpectedChar, Offset: 3, Char: 'x',
		},
		{
			Name: "slash at end", Input: `<a/`, Events: events(markup.Push("a")),
			Err: markup.ErrUnexpectedEndOfInput, Offset: 3,
		},
		{
			Name: "tag inside open tag", Input: `<a <b>`, Events: events(markup.Push("a")),
			Err: markup.ErrUnexpectedChar, Offset: 4, Char: 'b',
		},
		{
			Name: "unterminated closing tag", Input: `<a></a`, Events: events(markup.Push("a")),
			Err: markup.ErrUnexpectedEndOfInput, Offset: 6,
		},
		{
			Name: "junk in closing tag", Input: `<a></a x>`, Events: events(markup.Push("a")),
			Err: markup.ErrUnexpectedChar, Offset: 7, Char: 'x',
		},
	}
}

// Run executes every case against sources built by newSource.
func Run(t *testing.T, newSource Factory) {
	t.Helper()

	for _, tc := range Cases() {
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			src := newSource(tc.Input, tc.Options)
			got, err := markup.Collect(src)

			if len(tc.Events) == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tc.Events, got)
			}

			if tc.Err == nil {
				require.NoError(t, err)
				ev, err := src.Next()
				require.NoError(t, err)
				assert.Equal(t, markup.EndOfInput, ev.Kind, "end of input is sticky")
				return
			}

			require.ErrorIs(t, err, tc.Err)
			var syntaxErr *markup.SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tc.Offset, syntaxErr.Offset, "offset")
			if tc.Char != 0 {
				assert.Equal(t, tc.Char, syntaxErr.Char, "char")
			}

			_, again := src.Next()
			assert.Equal(t, err, again, "errors are sticky")
		})
	}
}

func events(evs ...markup.Event) []markup.Event {
	return evs
}
