// Package main is the entry point for the xml1 CLI.
package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/yaklabco/xml1/internal/cli"
	"github.com/yaklabco/xml1/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	err := rootCmd.Execute()
	if err != nil && !cli.Silent(err) {
		logging.Default().Error("command failed", logging.FieldError, err)
	}

	return cli.ExitCode(err)
}
