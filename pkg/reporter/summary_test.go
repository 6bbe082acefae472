package reporter_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xml1/pkg/reporter"
	"github.com/yaklabco/xml1/pkg/runner"
)

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	files := mixedTree()
	files["copy.xml"] = files["good.xml"]
	files["notes.md"] = "# Notes\n\n<details>\n</details>\n"
	result, _ := scanTree(t, files)

	var buf bytes.Buffer
	rep := reporter.NewSummaryReporter(reporter.Options{Writer: &buf, Color: "never"})

	n, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out := buf.String()
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 5)

	assert.Equal(t, "FORMAT           FILES    FAILED    EVENTS     BYTES", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "xml                  3         1"), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "markdown             1         0"), lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "svg                  1         1"), lines[4])

	assert.Contains(t, out, "Files discovered:  5")
	assert.Contains(t, out, "Duplicates:        1")
	assert.Contains(t, out, "Scan failed")
}

func TestSummaryReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewSummaryReporter(reporter.Options{Writer: &buf, Color: "never"})

	n, err := rep.Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "No files to scan.\n", buf.String())
}
