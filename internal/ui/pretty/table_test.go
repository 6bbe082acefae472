package pretty_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xml1/internal/ui/pretty"
	"github.com/yaklabco/xml1/pkg/markup"
	"github.com/yaklabco/xml1/pkg/runner"
	"github.com/yaklabco/xml1/pkg/scan"
)

func tableResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "ok.xml"},
			{
				Path:     "broken.xml",
				Syntax:   markup.NewSyntaxError(12, '"', markup.ErrUnexpectedChar),
				Position: markup.Position{Line: 2, Column: 4},
			},
			{Path: "open.svg", Balance: &scan.BalanceError{Depth: 1}},
		},
		Stats: runner.Stats{FilesScanned: 3, FilesFailed: 2, SyntaxErrors: 1, BalanceErrors: 1},
	}
}

func TestFormatTable(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 120)
	out := formatter.FormatTable(tableResult())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)

	assert.Contains(t, lines[0], "FILE")
	assert.Contains(t, lines[0], "LOC")
	assert.Contains(t, lines[0], "KIND")
	assert.Contains(t, lines[0], "MESSAGE")
	assert.True(t, strings.HasPrefix(lines[1], "===="))
	assert.Contains(t, lines[2], "broken.xml")
	assert.Contains(t, lines[2], "2:4")
	assert.Contains(t, lines[2], `unexpected character '"'`)
	assert.True(t, strings.HasPrefix(lines[3], "----"))
	assert.Contains(t, lines[4], "open.svg")
	assert.Contains(t, lines[4], " - ")
	assert.Contains(t, lines[4], "1 element left open")
	assert.Contains(t, lines[6], "Legend:")

	assert.Len(t, lines[1], len(lines[0]))
	assert.Len(t, lines[2], len(lines[0]))
	assert.NotContains(t, out, "ok.xml")
}

func TestFormatTable_Empty(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 0)
	assert.Empty(t, formatter.FormatTable(nil))
	assert.Empty(t, formatter.FormatTable(&runner.Result{Files: []runner.FileOutcome{{Path: "a.xml"}}}))
}

func TestFormatTable_NarrowTerminal(t *testing.T) {
	t.Parallel()

	result := &runner.Result{Files: []runner.FileOutcome{{
		Path:  strings.Repeat("deep/", 20) + "file.xml",
		Error: assert.AnError,
	}}}

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 80)
	out := formatter.FormatTable(result)

	assert.Contains(t, out, "...")
	assert.Contains(t, out, "file.xml")
}

func TestFormatFileTable(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 100)

	assert.Empty(t, formatter.FormatFileTable(runner.FileOutcome{Path: "ok.xml"}))

	out := formatter.FormatFileTable(tableResult().Files[1])
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.NotContains(t, lines[0], "FILE")
	assert.Contains(t, lines[2], "syntax")
	assert.Len(t, lines[1], len(lines[0]))
}

func TestFormatTableSummary(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 100)
	stats := tableResult().Stats
	stats.Scan.Elements = 7

	got := formatter.FormatTableSummary(stats, "2ms")
	assert.Equal(t, " 3 files scanned | 7 events | 1 syntax | 1 balance | 2ms", got)
}

func TestFormatBenchTable(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 100)
	out := formatter.FormatBenchTable("big.xml", []scan.BenchResult{
		{EngineName: "scalar", Bytes: 1_000_000, Events: 5000, Iterations: 10, Elapsed: 100 * time.Millisecond},
		{EngineName: "simd", Bytes: 1_000_000, Events: 5000, Iterations: 10, Elapsed: 25 * time.Millisecond},
	})

	assert.Contains(t, out, "big.xml")
	assert.Contains(t, out, "ENGINE")
	assert.Contains(t, out, "10ms")
	assert.Contains(t, out, "100.0")
	assert.Contains(t, out, "400.0")
}
