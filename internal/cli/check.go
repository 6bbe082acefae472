package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/xml1/internal/logging"
	"github.com/yaklabco/xml1/pkg/config"
	"github.com/yaklabco/xml1/pkg/reporter"
	"github.com/yaklabco/xml1/pkg/runner"
)

type checkFlags struct {
	format         string
	noBalance      bool
	noContext      bool
	compact        bool
	keepDuplicates bool
	followSymlinks bool
	include        []string
}

func newCheckCommand(globals *globalFlags) *cobra.Command {
	var cfg config.Config
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Scan documents and report malformed markup",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, globals, &cfg, flags)
		},
	}

	addScanFlags(cmd, &cfg)
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, table, json, events, summary")
	annotateFlags(cmd, formatFlagAnnotation, "format")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&cfg.Ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "glob patterns a file must match")
	cmd.Flags().StringSliceVar(&cfg.Extensions, "ext", nil, "file extensions scanned in directories")
	cmd.Flags().BoolVar(&cfg.Markdown, "markdown", false, "also scan HTML embedded in Markdown files")
	cmd.Flags().BoolVar(&flags.noBalance, "no-balance", false, "do not report unbalanced elements")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVar(&flags.keepDuplicates, "keep-duplicates", false, "scan files with identical content separately")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")

	return cmd
}

const checkLongDescription = `Scan XML-like documents and report the first syntax error of each file,
plus elements that do not balance.

By default, scans files with XML-family extensions (.xml, .svg, .plist, ...)
in the current directory and subdirectories. Files named on the command line
are scanned whatever their extension.

Examples:
  xml1 check                       # Check current directory
  xml1 check assets/ feed.rss      # Check a directory and a file
  xml1 check --markdown docs/      # Also check HTML inside Markdown
  xml1 check --engine scalar       # Use the reference scanner
  xml1 check --format json         # Output as JSON for CI`

// addScanFlags registers the flags that shape scanner behavior.
func addScanFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.Engine, "engine", "", "scanner engine: scalar, simd (default: build default)")
	cmd.Flags().BoolVar(&cfg.EmitComments, "emit-comments", false, "emit comments as events")
	cmd.Flags().StringVar(&cfg.CloseNames, "close-names", "", "closing tag names: strict, permissive")
	annotateFlags(cmd, scanFlagAnnotation, "engine", "emit-comments", "close-names")
}

func runCheck(cmd *cobra.Command, args []string, globals *globalFlags, cliCfg *config.Config, flags *checkFlags) error {
	if flags.format != "" {
		format, err := config.ParseOutputFormat(flags.format)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
		}
		cliCfg.Format = format
	}

	cfg, workDir, err := loadConfig(cmd, globals, cliCfg)
	if err != nil {
		return err
	}
	if flags.noBalance {
		cfg.Balance = false
	}

	runOpts, err := runner.OptionsFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	runOpts.Paths = args
	runOpts.WorkingDir = workDir
	runOpts.IncludeGlobs = flags.include
	runOpts.KeepDuplicates = flags.keepDuplicates
	runOpts.FollowSymlinks = flags.followSymlinks

	ctx := contextOf(cmd)
	logger := logging.FromContext(ctx)
	logger.Debug("starting scan",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldEngine, runOpts.Engine,
	)

	result, err := runner.New().Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("%w: scan: %w", errIO, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      cfg.Format,
		Color:       cfg.Color,
		ShowContext: !flags.noContext,
		ShowSummary: !cfg.Quiet,
		Compact:     flags.compact,
		Engine:      runOpts.Engine,
		Markup:      runOpts.Markup,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("%w: report results: %w", errIO, err)
	}

	logger.Debug("scan finished",
		logging.FieldFilesScanned, result.Stats.FilesScanned,
		logging.FieldFilesFailed, result.Stats.FilesFailed,
		logging.FieldEvents, result.Stats.Scan.Events(),
	)

	switch ExitCodeFromResult(result) {
	case ExitIOError:
		return fmt.Errorf("%w: %d file(s) could not be read", errIO, result.Stats.FilesErrored)
	case ExitScanErrors:
		return ErrScanFailed
	default:
		return nil
	}
}
