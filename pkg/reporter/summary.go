package reporter

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/xml1/internal/ui/pretty"
	"github.com/yaklabco/xml1/pkg/langdetect"
	"github.com/yaklabco/xml1/pkg/runner"
)

// Table layout constants for summary output.
const (
	tableWidth     = 60
	formatColWidth = 12
	numColWidth    = 10
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// formatRow aggregates the files of one format.
type formatRow struct {
	format langdetect.Format
	files  int
	failed int
	events int
	bytes  int
}

// SummaryReporter formats results as a per-format table and a statistics block.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil || len(result.Files) == 0 {
		_, err := fmt.Fprintln(r.out, r.styles.Success.Render("No files to scan."))
		return 0, err
	}

	var builder strings.Builder
	r.renderFormatTable(&builder, byFormat(result))
	builder.WriteString(r.styles.FormatSummary(result.Stats))

	if _, err := io.WriteString(r.out, builder.String()); err != nil {
		return 0, fmt.Errorf("write summary: %w", err)
	}
	return countFindings(result), nil
}

func (r *SummaryReporter) renderFormatTable(builder *strings.Builder, rows []formatRow) {
	header := padRight("FORMAT", formatColWidth) +
		padLeft("FILES", numColWidth) +
		padLeft("FAILED", numColWidth) +
		padLeft("EVENTS", numColWidth) +
		padLeft("BYTES", numColWidth)
	builder.WriteString(r.styles.Bold.Render(header))
	builder.WriteString("\n")
	builder.WriteString(r.styles.Dim.Render(strings.Repeat("-", tableWidth)))
	builder.WriteString("\n")

	for _, row := range rows {
		failed := padLeft(strconv.Itoa(row.failed), numColWidth)
		if row.failed > 0 {
			failed = r.styles.Failure.Render(failed)
		}
		builder.WriteString(padRight(row.format.String(), formatColWidth))
		builder.WriteString(padLeft(strconv.Itoa(row.files), numColWidth))
		builder.WriteString(failed)
		builder.WriteString(padLeft(strconv.Itoa(row.events), numColWidth))
		builder.WriteString(padLeft(strconv.Itoa(row.bytes), numColWidth))
		builder.WriteString("\n")
	}
}

// byFormat groups file outcomes by format, most files first. Duplicates
// count as files but add no events.
func byFormat(result *runner.Result) []formatRow {
	index := make(map[langdetect.Format]int)
	var rows []formatRow

	for _, file := range result.Files {
		idx, ok := index[file.Format]
		if !ok {
			idx = len(rows)
			index[file.Format] = idx
			rows = append(rows, formatRow{format: file.Format})
		}
		row := &rows[idx]
		row.files++
		if file.Failed() {
			row.failed++
		}
		if file.DuplicateOf == "" {
			row.events += file.Stats.Events()
			row.bytes += file.Stats.Bytes
		}
	}

	slices.SortStableFunc(rows, func(a, b formatRow) int {
		if a.files != b.files {
			return b.files - a.files
		}
		return strings.Compare(string(a.format), string(b.format))
	})
	return rows
}
