package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/yaklabco/xml1/internal/ui/pretty"
	"github.com/yaklabco/xml1/pkg/runner"
)

// defaultTermWidth is used when terminal width cannot be determined.
const defaultTermWidth = 100

// TableReporter formats results as a styled table with color-coded rows.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, colorEnabled, getTerminalWidth(opts.Writer)),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to scan."))
		}
		return 0, nil
	}

	total := countFindings(result)
	if total == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("All files passed!"))
			fmt.Fprintln(r.bw, r.styles.Dim.Render(
				fmt.Sprintf("%d files scanned", result.Stats.FilesScanned),
			))
		}
		return 0, nil
	}

	fmt.Fprint(r.bw, r.formatter.FormatTable(r.relativize(result)))

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw, r.formatter.FormatTableSummary(result.Stats, result.Stats.Elapsed.String()))
	}

	return total, nil
}

// relativize returns a copy of result whose paths are relative to the working directory.
func (r *TableReporter) relativize(result *runner.Result) *runner.Result {
	if r.opts.WorkingDir == "" {
		return result
	}
	out := *result
	out.Files = make([]runner.FileOutcome, len(result.Files))
	for idx, file := range result.Files {
		file.Path = r.opts.displayPath(file.Path)
		out.Files[idx] = file
	}
	return &out
}

// getTerminalWidth attempts to get the terminal width from the writer.
func getTerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
