// Package reporter renders scan results as text, tables, JSON, event dumps or
// summaries.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/xml1/pkg/config"
	"github.com/yaklabco/xml1/pkg/runner"
)

// Reporter formats and writes scan results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of findings reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = config.FormatText
	}

	switch format {
	case config.FormatText:
		return NewTextReporter(opts), nil
	case config.FormatTable:
		return NewTableReporter(opts), nil
	case config.FormatJSON:
		return NewJSONReporter(opts), nil
	case config.FormatEvents:
		return NewEventsReporter(opts), nil
	case config.FormatSummary:
		return NewSummaryReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// countFindings returns the number of files with a finding.
func countFindings(result *runner.Result) int {
	if result == nil {
		return 0
	}
	var n int
	for _, file := range result.Files {
		if file.Failed() {
			n++
		}
	}
	return n
}
