package reporter

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/yaklabco/xml1/internal/ui/pretty"
	"github.com/yaklabco/xml1/pkg/markup"
	"github.com/yaklabco/xml1/pkg/runner"
	"github.com/yaklabco/xml1/pkg/scan"
)

// jsonSchemaVersion is bumped when the JSON layout changes incompatibly.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Engine  string           `json:"engine"`
	Files   []JSONFileResult `json:"files"`
	Summary runner.Stats     `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string       `json:"path"`
	Format      string       `json:"format"`
	Hash        string       `json:"hash,omitempty"`
	DuplicateOf string       `json:"duplicateOf,omitempty"`
	Fragments   int          `json:"fragments,omitempty"`
	Stats       scan.Stats   `json:"stats"`
	Finding     *JSONFinding `json:"finding,omitempty"`
}

// JSONFinding represents the problem found in a file.
type JSONFinding struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Offset  *int   `json:"offset,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Char    string `json:"char,omitempty"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return countFindings(result), nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Engine = result.Engine.String()
	output.Summary = result.Stats
	output.Files = make([]JSONFileResult, 0, len(result.Files))

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:        r.opts.displayPath(file.Path),
			Format:      file.Format.String(),
			DuplicateOf: r.opts.displayPath(file.DuplicateOf),
			Fragments:   file.Fragments,
			Stats:       file.Stats,
		}
		if file.Error == nil {
			fileResult.Hash = fmt.Sprintf("%016x", file.Hash)
		}

		if finding, ok := pretty.FindingOf(file); ok {
			fileResult.Finding = jsonFinding(file, finding)
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}

func jsonFinding(file runner.FileOutcome, finding pretty.Finding) *JSONFinding {
	out := &JSONFinding{
		Kind:    finding.Kind,
		Message: finding.Message,
		Error:   file.Err().Error(),
		Line:    finding.Position.Line,
		Column:  finding.Position.Column,
	}
	if finding.Offset >= 0 {
		offset := finding.Offset
		out.Offset = &offset
	}
	if file.Syntax != nil && errors.Is(file.Syntax, markup.ErrUnexpectedChar) {
		out.Char = string(file.Syntax.Char)
	}
	return out
}
