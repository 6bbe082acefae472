package cli

import (
	"errors"

	"github.com/yaklabco/xml1/internal/configloader"
	"github.com/yaklabco/xml1/pkg/fsutil"
	"github.com/yaklabco/xml1/pkg/runner"
)

// Exit codes for xml1.
const (
	// ExitSuccess indicates successful execution with no findings.
	ExitSuccess = 0

	// ExitScanErrors indicates the scan completed but found syntax or balance errors.
	ExitScanErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Sentinel errors mapped to exit codes by ExitCode.
var (
	// ErrScanFailed is returned when a scan found problems. It carries no
	// message of its own; the findings have already been reported.
	ErrScanFailed = errors.New("scan found problems")

	// ErrInvalidUsage wraps flag and argument errors.
	ErrInvalidUsage = errors.New("invalid usage")

	// ErrConfig wraps configuration loading errors.
	ErrConfig = errors.New("configuration error")

	// errIO marks failures reading input or writing output.
	errIO = errors.New("i/o error")
)

// ExitCodeFromResult determines the exit code for a scan result. Unreadable
// files take precedence over findings.
func ExitCodeFromResult(result *runner.Result) int {
	if result == nil {
		return ExitSuccess
	}
	if result.Stats.FilesErrored > 0 {
		return ExitIOError
	}
	if result.Stats.FilesFailed > 0 {
		return ExitScanErrors
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrScanFailed):
		return ExitScanErrors
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fsutil.ErrTooLarge),
		errors.Is(err, errIO):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// Silent reports whether err needs no message: the bare ErrScanFailed means
// every finding has already been reported.
func Silent(err error) bool {
	return err == ErrScanFailed //nolint:errorlint // Wrapped forms carry their own message.
}
