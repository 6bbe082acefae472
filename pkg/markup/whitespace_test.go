package markup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/xml1/pkg/markup"
)

func TestIsSpace(t *testing.T) {
	t.Parallel()

	spaces := []rune{
		' ', '\t', '\n', '\r',
		0x00A0, 0x2000, 0x2005, 0x200A,
		0x200F, 0x2028, 0x2029, 0x202F, 0x3000,
	}
	for _, r := range spaces {
		assert.True(t, markup.IsSpace(r), "%U", r)
	}

	others := []rune{'\v', '\f', 0x0085, 0x200B, 0x200E, 0x1680, 0x205F, 0xFEFF, 'a', '<'}
	for _, r := range others {
		assert.False(t, markup.IsSpace(r), "%U", r)
	}
}

func TestTrimRightSpace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "no trailing space", input: "  text", expected: "  text"},
		{name: "ascii", input: "text \t\r", expected: "text"},
		{name: "all space", input: " \u00A0 ", expected: ""},
		{name: "right-to-left mark", input: "שלום\u200F", expected: "שלום"},
		{name: "mixed unicode", input: "x\u3000\u2029 \u202F", expected: "x"},
		{name: "multi-byte content kept", input: "é\u00A0", expected: "é"},
		{name: "vertical tab kept", input: "x\v", expected: "x\v"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, markup.TrimRightSpace(tt.input))
		})
	}
}
