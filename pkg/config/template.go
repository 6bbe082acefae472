package config

import (
	"fmt"

	"github.com/goccy/go-json"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default instead of a commented skeleton.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

const minimalTemplate = `# xml1 configuration
# See: https://github.com/yaklabco/xml1

# Scanner engine: scalar or simd (empty = build default)
# engine: simd

# Emit comments as events (events command and events format)
# emit_comments: false

# Closing tag names: strict (letters, digits, _ and -) or permissive
close_names: strict

# Extensions scanned when walking directories
# extensions:
#   - .xml
#   - .svg

# Also scan HTML embedded in Markdown files
# markdown: false

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "testdata/**"
`

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON(NewConfig())
	}
	if !opts.Full {
		return []byte(minimalTemplate), nil
	}

	cfg := NewConfig()
	cfg.Ignore = []string{"vendor/**", "node_modules/**", ".git/**"}
	return cfg.ToYAMLWithHeader(DefaultTemplateHeader())
}

// templateToJSON renders the defaults as indented JSON.
func templateToJSON(cfg *Config) ([]byte, error) {
	doc := map[string]any{
		"engine":        cfg.Engine,
		"emit_comments": cfg.EmitComments,
		"close_names":   cfg.CloseNames,
		"extensions":    cfg.Extensions,
		"markdown":      cfg.Markdown,
		"balance":       cfg.Balance,
		"jobs":          cfg.Jobs,
		"format":        cfg.Format,
		"bench": map[string]any{
			"iterations": cfg.Bench.Iterations,
		},
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# xml1 configuration
# See: https://github.com/yaklabco/xml1`
}
