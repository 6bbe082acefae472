package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/xml1/internal/ui/pretty"
	"github.com/yaklabco/xml1/pkg/fsutil"
	"github.com/yaklabco/xml1/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
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

	var total int
	for _, file := range result.Files {
		finding, ok := pretty.FindingOf(file)
		if !ok {
			continue
		}
		finding.Path = r.opts.displayPath(finding.Path)

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(finding.Path, r.opts.fileNote(file)))

		var sourceLine string
		if r.opts.ShowContext && finding.Position.IsValid() {
			sourceLine = r.sourceLine(ctx, file.Path, finding.Position.Line)
		}
		fmt.Fprint(r.bw, r.styles.FormatFinding(finding, r.opts.ShowContext, sourceLine))
		fmt.Fprintln(r.bw)
		total++
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// sourceLine rereads a file for the line under a finding. Unreadable files
// simply get no context.
func (r *TextReporter) sourceLine(ctx context.Context, path string, line int) string {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return ""
	}
	return pretty.SourceLine(string(content), line)
}

// fileNote describes the format of a file for its header.
func (o Options) fileNote(file runner.FileOutcome) string {
	if file.Error != nil {
		return ""
	}
	note := file.Format.String()
	if file.Fragments > 0 {
		note += fmt.Sprintf(", %d fragments", file.Fragments)
	}
	if file.DuplicateOf != "" {
		note += ", duplicate of " + o.displayPath(file.DuplicateOf)
	}
	return note
}
