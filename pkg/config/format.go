package config

import (
	"fmt"
	"strings"
)

// OutputFormat specifies the output format for scan results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatEvents  OutputFormat = "events"
	FormatSummary OutputFormat = "summary"
)

// OutputFormats lists every supported format.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatText, FormatTable, FormatJSON, FormatEvents, FormatSummary}
}

// IsValid returns true if the format is supported.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatJSON, FormatEvents, FormatSummary:
		return true
	default:
		return false
	}
}

// ParseOutputFormat parses a format name case-insensitively.
func ParseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format == "" {
		return FormatText, nil
	}
	if !format.IsValid() {
		names := make([]string, 0, len(OutputFormats()))
		for _, f := range OutputFormats() {
			names = append(names, string(f))
		}
		return "", fmt.Errorf("unknown format %q; valid formats: %s", s, strings.Join(names, ", "))
	}
	return format, nil
}
