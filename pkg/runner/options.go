// Package runner scans many files concurrently and collects per-file outcomes.
package runner

import (
	"slices"

	"github.com/yaklabco/xml1/pkg/config"
	"github.com/yaklabco/xml1/pkg/markup"
	"github.com/yaklabco/xml1/pkg/scan"
)

// Options controls a multi-file scan.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot) scanned
	// during directory walks. Defaults to config.DefaultExtensions().
	// Files named explicitly in Paths are always scanned.
	Extensions []string

	// Markdown adds Markdown files to discovery and scans their embedded markup.
	Markdown bool

	// IncludeGlobs are additional glob patterns to include, relative to WorkingDir.
	// Empty means "include everything that matches Extensions".
	IncludeGlobs []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.GOMAXPROCS).
	Jobs int

	// Engine selects the scanner.
	Engine scan.Engine

	// Markup holds the scanner options.
	Markup markup.Options

	// Balance reports documents whose elements do not balance.
	Balance bool

	// KeepDuplicates scans every file even when its content was already seen.
	KeepDuplicates bool
}

// markdownExtensions are added to discovery when Options.Markdown is set.
//
//nolint:gochecknoglobals // Read-only lookup table.
var markdownExtensions = []string{".md", ".markdown"}

// OptionsFromConfig builds scan options from a resolved configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	engine, err := cfg.ScanEngine()
	if err != nil {
		return Options{}, err
	}
	markupOpts, err := cfg.MarkupOptions()
	if err != nil {
		return Options{}, err
	}

	return Options{
		Extensions:   slices.Clone(cfg.Extensions),
		Markdown:     cfg.Markdown,
		ExcludeGlobs: slices.Clone(cfg.Ignore),
		Jobs:         cfg.Jobs,
		Engine:       engine,
		Markup:       markupOpts,
		Balance:      cfg.Balance,
	}, nil
}

// effectiveExtensions returns the extensions to use, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = config.DefaultExtensions()
	}
	if o.Markdown {
		exts = append(slices.Clone(exts), markdownExtensions...)
	}
	return exts
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
