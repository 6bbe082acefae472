package markup_test

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xml1/internal/markuptest"
	"github.com/yaklabco/xml1/pkg/markup"
)

func newScanner(src string, opts markup.Options) markup.Source {
	return markup.NewScanner(src, opts)
}

func TestScanner_Conformance(t *testing.T) {
	t.Parallel()

	markuptest.Run(t, newScanner)
}

func TestScanner_NextIsOneEventPerCall(t *testing.T) {
	t.Parallel()

	scanner := markup.NewScanner(`<a x="1">hi</a>`, markup.Options{})

	expected := []struct {
		event  markup.Event
		offset int
	}{
		{event: markup.Push("a"), offset: 2},
		{event: markup.ValueAttr("x", "1"), offset: 8},
		{event: markup.TextEvent("hi"), offset: 11},
		{event: markup.Pop("a"), offset: 15},
		{event: markup.EOF(), offset: 15},
		{event: markup.EOF(), offset: 15},
	}

	for i, want := range expected {
		ev, err := scanner.Next()
		require.NoError(t, err, "call %d", i)
		assert.Equal(t, want.event, ev, "call %d", i)
		assert.Equal(t, want.offset, scanner.Offset(), "offset after call %d", i)
	}
}

func TestScanner_Reset(t *testing.T) {
	t.Parallel()

	scanner := markup.NewScanner(`<a`, markup.Options{EmitComments: true})
	_, err := markup.Collect(scanner)
	require.Error(t, err)

	scanner.Reset(`<!--c--><b/>`)
	got, err := markup.Collect(scanner)
	require.NoError(t, err)
	assert.Equal(t, []markup.Event{markup.CommentEvent("c"), markup.Push("b"), markup.SelfClose()}, got)
}

func TestScanner_SlicesBorrowInput(t *testing.T) {
	t.Parallel()

	src := `<root attr="value">text</root>`
	got, err := markup.Collect(markup.NewScanner(src, markup.Options{}))
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Same(t, unsafe.StringData(src[1:]), unsafe.StringData(got[0].Name))
	assert.Same(t, unsafe.StringData(src[12:]), unsafe.StringData(got[1].Value))
	assert.Same(t, unsafe.StringData(src[19:]), unsafe.StringData(got[2].Value))
	assert.Equal(t, "value", got[1].Value)
}

func TestWalk_StopsOnCallbackError(t *testing.T) {
	t.Parallel()

	errStop := errors.New("stop")
	var seen int
	err := markup.Walk(markup.NewScanner(`<a><b/></a>`, markup.Options{}), func(ev markup.Event) error {
		seen++
		if ev.Kind == markup.PopElement {
			return errStop
		}
		return nil
	})

	require.ErrorIs(t, err, errStop)
	assert.Equal(t, 3, seen)
}

func TestCollect_ReturnsPartialEvents(t *testing.T) {
	t.Parallel()

	got, err := markup.Collect(markup.NewScanner(`<a b c=>`, markup.Options{}))

	require.ErrorIs(t, err, markup.ErrUnexpectedChar)
	assert.Equal(t, []markup.Event{markup.Push("a"), markup.BoolAttr("b")}, got)
}

func TestSyntaxError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *markup.SyntaxError
		expected string
	}{
		{
			name:     "unexpected char",
			err:      markup.NewSyntaxError(4, 'x', markup.ErrUnexpectedChar),
			expected: "markup syntax error at offset 4: unexpected character 'x'",
		},
		{
			name:     "missing name",
			err:      markup.NewSyntaxError(1, 0, markup.ErrMissingElementName),
			expected: "markup syntax error at offset 1: missing element name",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "<nil>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PushElement", markup.PushElement.String())
	assert.Equal(t, "Comment", markup.Comment.String())
	assert.Equal(t, "Kind(42)", markup.Kind(42).String())
}

func TestEvent_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		event    markup.Event
		expected string
	}{
		{markup.Push("r"), "PushElement r"},
		{markup.Pop("r"), "PopElement r"},
		{markup.SelfClose(), "PopElement /"},
		{markup.BoolAttr("toggle"), "Attr toggle"},
		{markup.ValueAttr("min", "0, 0"), `Attr min="0, 0"`},
		{markup.TextEvent("x"), `Text "x"`},
		{markup.CommentEvent(" c "), `Comment " c "`},
		{markup.EOF(), "EndOfInput"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.event.String())
	}
}

func TestParseCloseNameMode(t *testing.T) {
	t.Parallel()

	mode, err := markup.ParseCloseNameMode("")
	require.NoError(t, err)
	assert.Equal(t, markup.CloseNameStrict, mode)

	mode, err = markup.ParseCloseNameMode("permissive")
	require.NoError(t, err)
	assert.Equal(t, markup.CloseNamePermissive, mode)
	assert.Equal(t, "permissive", mode.String())

	_, err = markup.ParseCloseNameMode("loose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loose")
}

func TestIsStrictNameChar(t *testing.T) {
	t.Parallel()

	for _, r := range "azAZ09_-éж名٣" {
		assert.True(t, markup.IsStrictNameChar(r), "%q", r)
	}
	for _, r := range []rune{'.', ':', '/', '>', '¢', '€', ' ', 0x200F} {
		assert.False(t, markup.IsStrictNameChar(r), "%q", r)
	}
}
