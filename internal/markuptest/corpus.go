package markuptest

import (
	"strconv"
	"strings"
)

// Seeds are small inputs for fuzz corpora.
//
//nolint:gochecknoglobals // Shared read-only corpus.
var Seeds = []string{
	"",
	"text",
	"  text\n only  ",
	`<r/>`,
	`<r />`,
	`<!--<r></r>-->`,
	`<!--<r></r>`,
	`<r min="0, 0"></r>`,
	`<r toggle color="#fff"></r>`,
	`<a>  some <!-- not --> text  </a>`,
	`<a v="x\"y\\zA"/>`,
	"<名前 属性=\"値\">テキスト</名前>",
	"<p>\u200Fשלום\u00A0</p>",
	`<a <!-- c --> b="1">`,
	`<a></a`,
	`<a b="1`,
	`<>`,
}

// Document returns a well-formed document with roughly n elements mixing
// attributes, comments, multi-line text and multi-byte content.
func Document(n int) string {
	var b strings.Builder
	b.WriteString("<catalog version=\"2\" generated>\n")
	for i := range n {
		id := strconv.Itoa(i)
		b.WriteString("  <!-- entry ")
		b.WriteString(id)
		b.WriteString(" -->\n  <item id=\"")
		b.WriteString(id)
		b.WriteString("\" label=\"Item \\\"")
		b.WriteString(id)
		b.WriteString("\\\"\" enabled>\n")
		b.WriteString("    <name>Widget ")
		b.WriteString(id)
		b.WriteString("</name>\n")
		b.WriteString("    <note lang=\"ja\">部品の説明 ")
		b.WriteString(id)
		b.WriteString("\n      second line of the note   </note>\n")
		b.WriteString("    <size w=\"10\" h=\"20\"/>\n")
		b.WriteString("  </item>\n")
	}
	b.WriteString("</catalog>\n")
	return b.String()
}
