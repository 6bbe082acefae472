// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, layered decoding,
// environment variable support and validation.
package configloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/xml1/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// Environ overrides os.Environ for environment loading. Tests use it to
	// avoid touching the process environment.
	Environ []string

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by layering all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (XML1_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.xml1.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/xml1/config.yaml)
//  6. System config (/etc/xml1/config.yaml)
//  7. Defaults
//
// Each file is decoded on top of the layers below it, so a key a file does
// not mention keeps its lower-precedence value while an explicit false or
// empty list does override.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{
		Paths: &ConfigPaths{},
	}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	cfg := config.NewConfig()

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	result.Paths = paths
	if opts.ExplicitPath != "" {
		result.Paths.Explicit = opts.ExplicitPath
	}

	layers := []struct {
		name string
		path string
		skip bool
	}{
		{name: "system", path: paths.System, skip: opts.IgnoreSystemConfig},
		{name: "user", path: paths.User, skip: opts.IgnoreUserConfig},
		{name: "project", path: paths.Project, skip: opts.IgnoreProjectConfig},
		{name: "explicit", path: opts.ExplicitPath},
	}

	for _, layer := range layers {
		if layer.skip || layer.path == "" {
			continue
		}
		if err := loadConfigFile(layer.path, cfg); err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		result.LoadedFrom = append(result.LoadedFrom, layer.path)

		validation := ValidateWithFile(cfg, layer.path)
		if !validation.Valid() {
			return nil, &validation.Errors[0]
		}
	}

	if !opts.IgnoreEnv {
		environ := opts.Environ
		if environ == nil {
			environ = os.Environ()
		}
		if err := LoadFromEnviron(cfg, environ); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile decodes the YAML file at path on top of cfg.
func loadConfigFile(path string, cfg *config.Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse YAML %s: %w", path, err)
	}

	return nil
}
