package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/xml1/internal/logging"
	"github.com/yaklabco/xml1/internal/ui/pretty"
	"github.com/yaklabco/xml1/pkg/config"
	"github.com/yaklabco/xml1/pkg/fsutil"
	"github.com/yaklabco/xml1/pkg/langdetect"
	"github.com/yaklabco/xml1/pkg/markup"
	"github.com/yaklabco/xml1/pkg/reporter"
	"github.com/yaklabco/xml1/pkg/runner"
)

// stdinPath names standard input on the command line.
const stdinPath = "-"

type eventsFlags struct {
	as string
}

func newEventsCommand(globals *globalFlags) *cobra.Command {
	var cfg config.Config
	flags := &eventsFlags{}

	cmd := &cobra.Command{
		Use:   "events [file|-]",
		Short: "Print the event stream of a document",
		Long: `Print every event of a document, one per line: the input offset after
the event, a tab, and the event.

The document is read from the named file, or from standard input when the
argument is "-" or omitted. Markdown files are dumped one embedded HTML
fragment at a time.

Examples:
  xml1 events feed.xml
  xml1 events --engine scalar --emit-comments icon.svg
  echo '<a x="1"/>' | xml1 events
  xml1 events --as markdown - < README.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := stdinPath
			if len(args) == 1 {
				path = args[0]
			}
			return runEvents(cmd, path, globals, &cfg, flags)
		},
	}

	addScanFlags(cmd, &cfg)
	cmd.Flags().StringVar(&flags.as, "as", "", "document format: xml, svg, plist, html, markdown (default: detect)")

	return cmd
}

func runEvents(cmd *cobra.Command, path string, globals *globalFlags, cliCfg *config.Config, flags *eventsFlags) error {
	cfg, _, err := loadConfig(cmd, globals, cliCfg)
	if err != nil {
		return err
	}
	opts, err := runner.OptionsFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	ctx := contextOf(cmd)
	content, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	format, err := eventsFormat(flags.as, path, content)
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Debug("dumping events",
		logging.FieldPath, path,
		logging.FieldFormat, format,
		logging.FieldEngine, opts.Engine,
	)

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, out))
	bw := bufio.NewWriter(out)

	doc := string(content)
	dumpErr := reporter.NewEventDumper(styles, opts.Engine, opts.Markup).Dump(ctx, bw, doc, format)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: write events: %w", errIO, err)
	}

	var syntaxErr *markup.SyntaxError
	switch {
	case dumpErr == nil:
		return nil
	case errors.As(dumpErr, &syntaxErr):
		pos := markup.Locate(doc, syntaxErr.Offset)
		fmt.Fprint(cmd.ErrOrStderr(), styles.FormatFinding(pretty.Finding{
			Path:     path,
			Position: pos,
			Offset:   syntaxErr.Offset,
			Kind:     pretty.KindSyntax,
			Message:  pretty.SyntaxMessage(syntaxErr),
		}, !cfg.Quiet, pretty.SourceLine(doc, pos.Line)))
		return ErrScanFailed
	default:
		return fmt.Errorf("%w: %w", errIO, dumpErr)
	}
}

// readInput reads the named file, or standard input for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdinPath {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("%w: read stdin: %w", errIO, err)
		}
		return content, nil
	}

	content, _, err := fsutil.ReadFile(contextOf(cmd), path)
	if err != nil {
		return nil, err
	}
	return content, nil
}

// eventsFormat resolves the --as flag or detects the format of the input.
func eventsFormat(as, path string, content []byte) (langdetect.Format, error) {
	if as == "" {
		if path == stdinPath {
			path = ""
		}
		format := langdetect.Classify(path, content)
		if format == langdetect.FormatUnknown {
			format = langdetect.FormatXML
		}
		return format, nil
	}

	format := langdetect.Format(as)
	if !format.Markup() && !format.Embedded() {
		return "", fmt.Errorf("%w: unknown document format %q", ErrInvalidUsage, as)
	}
	return format, nil
}
