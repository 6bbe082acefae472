package reporter

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/xml1/pkg/config"
	"github.com/yaklabco/xml1/pkg/markup"
	"github.com/yaklabco/xml1/pkg/scan"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter is the destination for errors (typically os.Stderr).
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format config.OutputFormat

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowContext includes the offending source line under each finding.
	ShowContext bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Compact uses minified JSON output.
	Compact bool

	// Engine and Markup are used to rescan files for event dumps.
	Engine scan.Engine
	Markup markup.Options

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      config.FormatText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
		Engine:      scan.DefaultEngine,
	}
}

// displayPath returns path relative to the working directory when it lies
// beneath it.
func (o Options) displayPath(path string) string {
	if o.WorkingDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(o.WorkingDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
