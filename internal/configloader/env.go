package configloader

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/yaklabco/xml1/pkg/config"
)

// envVarPrefix is the prefix for all xml1 environment variables.
const envVarPrefix = "XML1_"

// envVar describes one supported environment variable.
type envVar struct {
	// path is the mapstructure key path, dot separated for nested structs.
	path        string
	list        bool
	description string
}

// envVars maps environment variable names (without prefix) to config keys.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = map[string]envVar{
	"ENGINE":           {path: "engine", description: "Scanner engine: scalar or simd"},
	"EMIT_COMMENTS":    {path: "emit_comments", description: "Emit comments as events: true or false"},
	"CLOSE_NAMES":      {path: "close_names", description: "Closing tag names: strict or permissive"},
	"EXTENSIONS":       {path: "extensions", list: true, description: "Comma-separated list of scanned extensions"},
	"IGNORE":           {path: "ignore", list: true, description: "Comma-separated list of ignore patterns"},
	"MARKDOWN":         {path: "markdown", description: "Scan markup embedded in Markdown: true or false"},
	"BALANCE":          {path: "balance", description: "Report unbalanced documents: true or false"},
	"JOBS":             {path: "jobs", description: "Number of parallel workers (0 = auto)"},
	"FORMAT":           {path: "format", description: "Output format: text, table, json, events, or summary"},
	"BENCH_ITERATIONS": {path: "bench.iterations", description: "Full scans per file and engine in bench"},
}

// LoadFromEnviron applies XML1_* overrides from environ (KEY=VALUE entries) to
// cfg. Values are decoded with weak typing, so "1", "true" and "yes" style
// values follow mapstructure's string conversions.
func LoadFromEnviron(cfg *config.Config, environ []string) error {
	if cfg == nil {
		return nil
	}

	input := make(map[string]any)
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || value == "" || !strings.HasPrefix(key, envVarPrefix) {
			continue
		}
		spec, known := envVars[strings.TrimPrefix(key, envVarPrefix)]
		if !known {
			continue
		}

		var decoded any = value
		if spec.list {
			decoded = parseSliceValue(value)
		}
		setPath(input, spec.path, decoded)
	}

	if len(input) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		// Lists replace the configured value instead of overwriting a prefix of it.
		ZeroFields: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			outputFormatHook,
		),
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode %s* variables: %w", envVarPrefix, err)
	}

	return nil
}

// setPath stores value under a dot-separated key path, creating nested maps.
func setPath(m map[string]any, path string, value any) {
	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		m[head] = value
		return
	}
	child, ok := m[head].(map[string]any)
	if !ok {
		child = make(map[string]any)
		m[head] = child
	}
	setPath(child, rest, value)
}

// outputFormatHook lower-cases format names before they reach the config.
func outputFormatHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(config.OutputFormat("")) {
		return data, nil
	}
	s, _ := data.(string)
	return config.OutputFormat(strings.ToLower(strings.TrimSpace(s))), nil
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// GetEnvVarName returns the full environment variable name for a config key path.
func GetEnvVarName(path string) string {
	for suffix, spec := range envVars {
		if spec.path == path {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns every supported environment variable with its description,
// sorted by name.
func ListEnvVars() [][2]string {
	out := make([][2]string, 0, len(envVars))
	for suffix, spec := range envVars {
		out = append(out, [2]string{envVarPrefix + suffix, spec.description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
