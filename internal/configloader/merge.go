package configloader

import (
	"slices"

	"github.com/yaklabco/xml1/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// It is used for CLI flags, where only set values should win:
//   - Scalar values: override overwrites base if override is non-zero
//   - Booleans: only true overrides, so an unset flag cannot clear a config value
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Engine != "" {
		result.Engine = override.Engine
	}
	if override.CloseNames != "" {
		result.CloseNames = override.CloseNames
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Bench.Iterations != 0 {
		result.Bench.Iterations = override.Bench.Iterations
	}
	if override.Color != "" {
		result.Color = override.Color
	}

	if override.EmitComments {
		result.EmitComments = true
	}
	if override.Markdown {
		result.Markdown = true
	}
	if override.Quiet {
		result.Quiet = true
	}

	if override.Extensions != nil {
		result.Extensions = slices.Clone(override.Extensions)
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
