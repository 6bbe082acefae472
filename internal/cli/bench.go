package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/yaklabco/xml1/internal/logging"
	"github.com/yaklabco/xml1/internal/ui/pretty"
	"github.com/yaklabco/xml1/pkg/config"
	"github.com/yaklabco/xml1/pkg/runner"
	"github.com/yaklabco/xml1/pkg/scan"
	"github.com/yaklabco/xml1/pkg/simd"
)

type benchFlags struct {
	json bool
}

// benchReport is the JSON layout of the bench command.
type benchReport struct {
	Kernel string          `json:"kernel"`
	Files  []benchFileJSON `json:"files"`
}

type benchFileJSON struct {
	Path    string             `json:"path"`
	Results []scan.BenchResult `json:"results"`
}

func newBenchCommand(globals *globalFlags) *cobra.Command {
	var cfg config.Config
	flags := &benchFlags{}

	cmd := &cobra.Command{
		Use:   "bench file...",
		Short: "Compare scanner engines on documents",
		Long: `Scan each file repeatedly with every engine and report throughput.

Both engines must agree on the event count; a file that fails to scan is
reported as an error. With --engine only that engine is measured.

Examples:
  xml1 bench big.xml
  xml1 bench --iterations 100 --engine simd feed.xml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, args, globals, &cfg, flags)
		},
	}

	addScanFlags(cmd, &cfg)
	cmd.Flags().IntVarP(&cfg.Bench.Iterations, "iterations", "n", 0, "full scans per file and engine")
	cmd.Flags().BoolVar(&flags.json, "json", false, "write results as JSON")

	return cmd
}

func runBench(cmd *cobra.Command, paths []string, globals *globalFlags, cliCfg *config.Config, flags *benchFlags) error {
	engineSet := cliCfg.Engine != ""

	cfg, _, err := loadConfig(cmd, globals, cliCfg)
	if err != nil {
		return err
	}
	opts, err := runner.OptionsFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	engines := scan.Engines()
	if engineSet {
		engines = []scan.Engine{opts.Engine}
	}

	ctx := contextOf(cmd)
	logger := logging.FromContext(ctx)
	logger.Debug("benchmarking",
		logging.FieldKernel, simd.Kernel(),
		logging.FieldIterations, cfg.Bench.Iterations,
	)

	out := cmd.OutOrStdout()
	colorEnabled := pretty.IsColorEnabled(cfg.Color, out)
	formatter := pretty.NewTableFormatter(pretty.NewStyles(colorEnabled), colorEnabled, 0)
	report := benchReport{Kernel: simd.Kernel()}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		content, err := readInput(cmd, path)
		if err != nil {
			return err
		}
		doc := string(content)

		results := make([]scan.BenchResult, 0, len(engines))
		for _, engine := range engines {
			res, err := scan.Bench(engine, doc, opts.Markup, cfg.Bench.Iterations)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrScanFailed, path, err)
			}
			logger.Debug("bench result",
				logging.FieldPath, path,
				logging.FieldEngine, engine,
				logging.FieldEvents, res.Events,
				logging.FieldThroughput, res.MBPerSecond(),
			)
			results = append(results, res)
		}
		if err := checkAgreement(path, results); err != nil {
			return err
		}

		if flags.json {
			report.Files = append(report.Files, benchFileJSON{Path: path, Results: results})
			continue
		}
		fmt.Fprint(out, formatter.FormatBenchTable(path, results))
	}

	if flags.json {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("%w: encode JSON: %w", errIO, err)
		}
		return nil
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "kernel: %s\n", report.Kernel)
	}
	return nil
}

// checkAgreement fails when engines disagree on the number of events.
func checkAgreement(path string, results []scan.BenchResult) error {
	for _, res := range results[1:] {
		if res.Events != results[0].Events {
			return fmt.Errorf("%w: %s: %s produced %d events, %s produced %d",
				ErrScanFailed, path,
				results[0].EngineName, results[0].Events,
				res.EngineName, res.Events)
		}
	}
	return nil
}
