package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/xml1/internal/configloader"
	"github.com/yaklabco/xml1/internal/logging"
	"github.com/yaklabco/xml1/pkg/config"
	"github.com/yaklabco/xml1/pkg/fsutil"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new xml1 configuration file",
		Long: `Create a new .xml1.yml configuration file in the current directory
with sensible defaults.

An existing file is only replaced with --force, or after confirmation when
running in a terminal. The previous content is kept next to it with a
` + fsutil.BackupSuffix + ` suffix.

Examples:
  xml1 init                      Create minimal .xml1.yml
  xml1 init --full               Create full config with every setting
  xml1 init --format json        Create .xml1.json instead
  xml1 init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with every setting")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output file path (default: "+configloader.ProjectConfigName+" or .xml1.json)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	ctx := contextOf(cmd)
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != "json" {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrInvalidUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = configloader.ProjectConfigName
		if flags.format == "json" {
			outputPath = ".xml1.json"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		if !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Overwrite %s?", outputPath)) {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrInvalidUsage, outputPath)
		}
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	backup, err := fsutil.CreateBackup(ctx, absPath)
	if err != nil {
		return fmt.Errorf("%w: %w", errIO, err)
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, absPath, content, fsutil.DefaultFileMode)
	if err != nil {
		return fmt.Errorf("%w: write file: %w", errIO, err)
	}

	switch {
	case !written:
		logger.Info("configuration file is already up to date", logging.FieldPath, outputPath)
		return nil
	case backup != "":
		logger.Warn("replaced existing file", logging.FieldPath, outputPath, "backup", backup)
	default:
		logger.Info("created configuration file", logging.FieldPath, outputPath)
	}

	logger.Info("customize your configuration by editing the file")
	return nil
}

// confirm asks a yes/no question when in is an interactive terminal.
// Anything other than an explicit yes, or a non-terminal input, declines.
func confirm(in io.Reader, out io.Writer, question string) bool {
	file, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return false
	}

	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
