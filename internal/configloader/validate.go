package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/xml1/pkg/config"
	"github.com/yaklabco/xml1/pkg/markup"
	"github.com/yaklabco/xml1/pkg/scan"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "bench.iterations").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownColorModes lists valid --color values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownColorModes = map[string]bool{
	"":       true,
	"auto":   true,
	"always": true,
	"never":  true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}
	addError := func(field string, value any, message string) {
		result.Errors = append(result.Errors, ValidationError{Field: field, Value: value, Message: message})
	}

	if _, err := scan.ParseEngine(cfg.Engine); err != nil {
		addError("engine", cfg.Engine, err.Error())
	}
	if _, err := markup.ParseCloseNameMode(cfg.CloseNames); err != nil {
		addError("close_names", cfg.CloseNames, err.Error())
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		addError("format", cfg.Format,
			fmt.Sprintf("invalid format %q; must be one of: text, table, json, events, summary", cfg.Format))
	}
	if cfg.Jobs < 0 {
		addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if cfg.Bench.Iterations < 0 {
		addError("bench.iterations", cfg.Bench.Iterations, "iterations must be >= 0 (0 means default)")
	}
	if !knownColorModes[cfg.Color] {
		addError("color", cfg.Color, fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color))
	}

	validateExtensions(cfg, result)
	validateIgnorePatterns(cfg, result)

	return result
}

// validateExtensions warns about extensions that can never match.
func validateExtensions(cfg *config.Config, result *ValidationResult) {
	if len(cfg.Extensions) == 0 && !cfg.Markdown {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "extensions",
			Message: "no extensions configured; directories will yield no files",
		})
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   fmt.Sprintf("extensions[%d]", i),
				Value:   ext,
				Message: fmt.Sprintf("extension %q has no leading dot and will not match", ext),
			})
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		// filepath.Match returns an error only for malformed patterns
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
