package reporter_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xml1/internal/ui/pretty"
	"github.com/yaklabco/xml1/pkg/langdetect"
	"github.com/yaklabco/xml1/pkg/markup"
	"github.com/yaklabco/xml1/pkg/reporter"
	"github.com/yaklabco/xml1/pkg/scan"
)

// dumpEvents returns the event column of every dump line.
func dumpEvents(t *testing.T, out string) []string {
	t.Helper()

	var events []string
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		_, event, ok := strings.Cut(line, "\t")
		require.True(t, ok, "line %q", line)
		events = append(events, event)
	}
	return events
}

func TestEventDumper_Dump(t *testing.T) {
	t.Parallel()

	for _, engine := range scan.Engines() {
		t.Run(engine.String(), func(t *testing.T) {
			t.Parallel()

			dumper := reporter.NewEventDumper(pretty.NewStyles(false), engine, markup.Options{})

			var buf bytes.Buffer
			err := dumper.Dump(context.Background(), &buf, `<a x="1" y>hi</a>`, langdetect.FormatXML)
			require.NoError(t, err)

			assert.Equal(t, []string{
				"PushElement a",
				`Attr x="1"`,
				"Attr y",
				`Text "hi"`,
				"PopElement a",
			}, dumpEvents(t, buf.String()))
			assert.True(t, strings.HasSuffix(buf.String(), "17\tPopElement a\n"))
		})
	}
}

func TestEventDumper_SyntaxError(t *testing.T) {
	t.Parallel()

	dumper := reporter.NewEventDumper(pretty.NewStyles(false), scan.EngineScalar, markup.Options{})

	var buf bytes.Buffer
	err := dumper.Dump(context.Background(), &buf, "<a>\n<>", langdetect.FormatXML)

	var syntaxErr *markup.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.ErrorIs(t, err, markup.ErrMissingElementName)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2\tPushElement a", lines[0])
	assert.Equal(t, "5\terror: missing element name", lines[1])
}

func TestEventDumper_Markdown(t *testing.T) {
	t.Parallel()

	doc := "# Title\n\nPress <kbd>q</kbd>.\n\n<div>\n</div>\n"
	dumper := reporter.NewEventDumper(pretty.NewStyles(false), scan.EngineScalar, markup.Options{})

	var buf bytes.Buffer
	require.NoError(t, dumper.Dump(context.Background(), &buf, doc, langdetect.FormatMarkdown))

	out := buf.String()
	inline := strings.Index(doc, "<kbd>")
	block := strings.Index(doc, "<div>")

	assert.Contains(t, out, "# inline fragment at "+itoa(inline)+"\n")
	assert.Contains(t, out, "# block fragment at "+itoa(block)+"\n")
	assert.Contains(t, out, itoa(inline+4)+"\tPushElement kbd\n")
	assert.Contains(t, out, "PushElement div\n")
	assert.NotContains(t, out, "Title")
}

func TestEventDumper_Markdown_ShiftsErrors(t *testing.T) {
	t.Parallel()

	doc := "text\n\n<div <>\n"
	dumper := reporter.NewEventDumper(pretty.NewStyles(false), scan.EngineScalar, markup.Options{})

	err := dumper.Dump(context.Background(), io.Discard, doc, langdetect.FormatMarkdown)

	var syntaxErr *markup.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.GreaterOrEqual(t, syntaxErr.Offset, strings.Index(doc, "<div"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestEventDumper_WriteError(t *testing.T) {
	t.Parallel()

	dumper := reporter.NewEventDumper(pretty.NewStyles(false), scan.EngineScalar, markup.Options{})
	err := dumper.Dump(context.Background(), failingWriter{}, "<a/>", langdetect.FormatXML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestEventDumper_LargeDocument(t *testing.T) {
	t.Parallel()

	doc := strings.Repeat("<item id=\"x\">value</item>\n", 5000)
	dumper := reporter.NewEventDumper(pretty.NewStyles(false), scan.EngineSIMD, markup.Options{})

	var buf bytes.Buffer
	require.NoError(t, dumper.Dump(context.Background(), &buf, doc, langdetect.FormatXML))
	assert.Equal(t, 5000*4, strings.Count(buf.String(), "\n"))
}

func TestEventsReporter(t *testing.T) {
	t.Parallel()

	result, dir := scanTree(t, map[string]string{
		"a.xml": "<a/>",
		"b.xml": "<a/>",
		"c.xml": "<c>",
	})

	var buf bytes.Buffer
	rep := reporter.NewEventsReporter(reporter.Options{
		Writer:     &buf,
		Color:      "never",
		Engine:     scan.EngineScalar,
		WorkingDir: dir,
	})

	n, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	want := "==> a.xml <== (xml)\n" +
		"2\tPushElement a\n" +
		"4\tPopElement /\n" +
		"==> b.xml <== (xml, duplicate of a.xml)\n" +
		"==> c.xml <== (xml)\n" +
		"2\tPushElement c\n"
	assert.Equal(t, want, buf.String())
}

func TestEventsReporter_SingleFileNoHeader(t *testing.T) {
	t.Parallel()

	result, _ := scanTree(t, map[string]string{"a.xml": "<a/>"})

	var buf bytes.Buffer
	rep := reporter.NewEventsReporter(reporter.Options{Writer: &buf, Color: "never"})

	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, "2\tPushElement a\n4\tPopElement /\n", buf.String())
}
