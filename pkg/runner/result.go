package runner

import (
	"errors"
	"fmt"
	"time"

	"github.com/yaklabco/xml1/pkg/langdetect"
	"github.com/yaklabco/xml1/pkg/markup"
	"github.com/yaklabco/xml1/pkg/scan"
)

// FileOutcome is the result of scanning one file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Format is the detected document format.
	Format langdetect.Format

	// Hash is the xxhash64 digest of the content.
	Hash uint64

	// DuplicateOf names the earlier file with identical content. Duplicates
	// carry that file's findings but are not counted in the aggregate stats.
	DuplicateOf string

	// Fragments is the number of markup fragments scanned in a Markdown file.
	Fragments int

	// Stats accounts for the events seen, up to the first syntax error.
	Stats scan.Stats

	// Syntax is the first syntax error, with Offset relative to the file.
	Syntax *markup.SyntaxError

	// Balance is set when balance checking is on and elements do not balance.
	Balance *scan.BalanceError

	// Position locates Syntax, or the underflow of Balance, in the file.
	Position markup.Position

	// Error is set if the file could not be read or processed.
	Error error
}

// Failed reports whether the file has any finding or error.
func (o FileOutcome) Failed() bool {
	return o.Error != nil || o.Syntax != nil || o.Balance != nil
}

// Err returns the most significant problem with the file, or nil.
func (o FileOutcome) Err() error {
	switch {
	case o.Error != nil:
		return o.Error
	case o.Syntax != nil:
		return o.Syntax
	case o.Balance != nil:
		return o.Balance
	default:
		return nil
	}
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int `json:"filesDiscovered"`

	// FilesScanned is the number of distinct documents scanned.
	FilesScanned int `json:"filesScanned"`

	// FilesDuplicate is the number of files skipped as duplicates.
	FilesDuplicate int `json:"filesDuplicate"`

	// FilesFailed is the number of files with a syntax or balance error.
	FilesFailed int `json:"filesFailed"`

	// FilesErrored is the number of files that could not be read.
	FilesErrored int `json:"filesErrored"`

	// SyntaxErrors and BalanceErrors count findings per kind.
	SyntaxErrors  int `json:"syntaxErrors"`
	BalanceErrors int `json:"balanceErrors"`

	// Scan sums the scan statistics of every distinct document.
	Scan scan.Stats `json:"scan"`

	// Elapsed is the wall time of the run.
	Elapsed time.Duration `json:"elapsed"`
}

// Result is the overall runner result.
type Result struct {
	// Engine is the scanner that produced the result.
	Engine scan.Engine

	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file failed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0 || r.Stats.FilesErrored > 0
}

// Errors joins the problems of every failed file.
func (r *Result) Errors() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, f := range r.Files {
		if err := f.Err(); err != nil {
			errs = append(errs, &FileError{Path: f.Path, Position: f.Position, Err: err})
		}
	}
	return errors.Join(errs...)
}

// FileError attaches a file and position to a scan problem.
type FileError struct {
	Path     string
	Position markup.Position
	Err      error
}

func (e *FileError) Error() string {
	if e.Position.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %v", e.Path, e.Position.Line, e.Position.Column, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	if outcome.DuplicateOf != "" {
		r.Stats.FilesDuplicate++
	} else {
		r.Stats.FilesScanned++
		r.Stats.Scan.Add(outcome.Stats)
	}

	if outcome.Syntax != nil {
		r.Stats.SyntaxErrors++
	}
	if outcome.Balance != nil {
		r.Stats.BalanceErrors++
	}
	if outcome.Failed() {
		r.Stats.FilesFailed++
	}
}
