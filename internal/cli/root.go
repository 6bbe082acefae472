// Package cli provides the Cobra command structure for xml1.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/xml1/internal/configloader"
	"github.com/yaklabco/xml1/internal/logging"
	"github.com/yaklabco/xml1/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	debug      bool
	quiet      bool
	configPath string
	color      string
}

// NewRootCommand creates the root xml1 command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "xml1",
		Short: "A zero-copy event scanner for XML-like markup",
		Long: `xml1 scans XML-like markup into a flat stream of events: element
pushes and pops, attributes, text runs and comments. Payloads are slices of
the input; nothing is copied, unescaped or validated beyond well-formed tags.

Two engines produce identical events: a Unicode-aware scalar scanner and a
vectorized scanner that searches 16 bytes at a time. Use "check" to validate
trees of documents, "events" to dump the event stream of one document and
"bench" to compare the engines.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if globals.debug {
				level = "debug"
			}
			logging.SetLevel(level)
			cmd.SetContext(logging.WithLogger(contextOf(cmd), logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&globals.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&globals.quiet, "quiet", "q", false, "suppress the summary line")
	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&globals.color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	})

	rootCmd.AddGroup(commandGroups()...)
	for _, sub := range []*cobra.Command{
		newCheckCommand(globals),
		newEventsCommand(globals),
		newBenchCommand(globals),
	} {
		sub.GroupID = groupScan
		rootCmd.AddCommand(sub)
	}
	for _, sub := range []*cobra.Command{newInitCommand(), newVersionCommand(info)} {
		sub.GroupID = groupSetup
		rootCmd.AddCommand(sub)
	}

	NewHelpRenderer(&globals.color).Apply(rootCmd)

	return rootCmd
}

// contextOf returns the command context, or a background context.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig layers configuration files, the environment and the flags in
// cliCfg, then applies the global flags.
func loadConfig(cmd *cobra.Command, globals *globalFlags, cliCfg *config.Config) (*config.Config, string, error) {
	ctx := contextOf(cmd)
	logger := logging.FromContext(ctx)

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("%w: get working directory: %w", errIO, err)
	}

	cliCfg.Color = globals.color
	cliCfg.Quiet = globals.quiet

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: globals.configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}
	if len(loaded.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loaded.LoadedFrom)
	}

	cfg := loaded.Config
	logger.Debug("configuration resolved",
		logging.FieldEngine, cfg.Engine,
		logging.FieldCloseNames, cfg.CloseNames,
		logging.FieldEmitComments, cfg.EmitComments,
		logging.FieldMarkdown, cfg.Markdown,
		logging.FieldJobs, cfg.Jobs,
	)

	return cfg, workDir, nil
}
