// Package config defines core configuration types for xml1.
// These types are pure data structures; discovery and merging live in internal/configloader.
package config

import (
	"slices"

	"github.com/yaklabco/xml1/pkg/markup"
	"github.com/yaklabco/xml1/pkg/scan"
)

// Engine names accepted in configuration.
const (
	EngineScalar = "scalar"
	EngineSIMD   = "simd"
)

// Close-name modes accepted in configuration.
const (
	CloseNamesStrict     = "strict"
	CloseNamesPermissive = "permissive"
)

// BenchConfig controls the bench command.
type BenchConfig struct {
	// Iterations is the number of full scans per file and engine.
	Iterations int `mapstructure:"iterations" yaml:"iterations"`
}

// Config is the root configuration structure for xml1.
type Config struct {
	// Engine selects the scanner: "scalar" or "simd". Empty means the build default.
	Engine string `mapstructure:"engine" yaml:"engine,omitempty"`

	// EmitComments produces Comment events instead of eliding comments.
	EmitComments bool `mapstructure:"emit_comments" yaml:"emit_comments"`

	// CloseNames selects the closing-tag name alphabet: "strict" or "permissive".
	CloseNames string `mapstructure:"close_names" yaml:"close_names"`

	// Extensions lists the file extensions scanned during discovery.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty"`

	// Markdown also scans markup embedded in Markdown files.
	Markdown bool `mapstructure:"markdown" yaml:"markdown"`

	// Balance reports documents whose opening and closing tags do not balance.
	Balance bool `mapstructure:"balance" yaml:"balance"`

	// Jobs specifies the number of parallel workers (0 = GOMAXPROCS).
	Jobs int `mapstructure:"jobs" yaml:"jobs"`

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"format" yaml:"format"`

	// Bench configures the bench command.
	Bench BenchConfig `mapstructure:"bench" yaml:"bench"`

	// CLI-level options (not persisted to config files).

	// Color is "auto", "always" or "never".
	Color string `mapstructure:"-" yaml:"-"`

	// Quiet suppresses the summary line.
	Quiet bool `mapstructure:"-" yaml:"-"`
}

// DefaultExtensions are scanned when the configuration names none.
func DefaultExtensions() []string {
	return []string{".xml", ".svg", ".plist", ".xhtml", ".rss", ".atom", ".xsd", ".xsl"}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		CloseNames: CloseNamesStrict,
		Extensions: DefaultExtensions(),
		Balance:    true,
		Format:     FormatText,
		Bench: BenchConfig{
			Iterations: 20,
		},
		Color: "auto",
	}
}

// ScanEngine returns the configured engine.
func (c *Config) ScanEngine() (scan.Engine, error) {
	return scan.ParseEngine(c.Engine)
}

// MarkupOptions returns the scanner options described by the configuration.
func (c *Config) MarkupOptions() (markup.Options, error) {
	mode, err := markup.ParseCloseNameMode(c.CloseNames)
	if err != nil {
		return markup.Options{}, err
	}
	return markup.Options{EmitComments: c.EmitComments, CloseNames: mode}, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Extensions = slices.Clone(c.Extensions)
	clone.Ignore = slices.Clone(c.Ignore)
	return &clone
}
