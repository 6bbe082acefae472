package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/xml1/internal/logging"
	"github.com/yaklabco/xml1/pkg/scan"
	"github.com/yaklabco/xml1/pkg/simd"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, build date, default engine and vector kernel of xml1.`,
		Run: func(cmd *cobra.Command, _ []string) {
			logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
				ReportTimestamp: false,
				ReportCaller:    false,
			})
			logger.SetLevel(log.InfoLevel)

			logger.Info("xml1",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				logging.FieldEngine, scan.DefaultEngine,
				logging.FieldKernel, simd.Kernel(),
			)
		},
	}

	return cmd
}
