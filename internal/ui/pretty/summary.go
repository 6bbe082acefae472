package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/xml1/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 problems (2 syntax, 1 balance) in 3 files, 12 files scanned".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	scanned := fmt.Sprintf("%d %s scanned", stats.FilesScanned, plural(stats.FilesScanned, wordFile, wordFiles))
	if stats.FilesDuplicate > 0 {
		scanned += fmt.Sprintf(", %d duplicate", stats.FilesDuplicate)
	}

	problems := stats.SyntaxErrors + stats.BalanceErrors + stats.FilesErrored
	if problems == 0 {
		return s.Success.Render("No problems found") + s.Dim.Render(" ("+scanned+")") + "\n"
	}

	var kinds []string
	if stats.SyntaxErrors > 0 {
		kinds = append(kinds, s.Error.Render(fmt.Sprintf("%d %s", stats.SyntaxErrors, KindSyntax)))
	}
	if stats.BalanceErrors > 0 {
		kinds = append(kinds, s.Warning.Render(fmt.Sprintf("%d %s", stats.BalanceErrors, KindBalance)))
	}
	if stats.FilesErrored > 0 {
		kinds = append(kinds, s.Info.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored)))
	}

	failed := stats.FilesFailed + stats.FilesErrored
	return fmt.Sprintf("%d %s (%s) in %d %s, %s\n",
		problems, plural(problems, "problem", "problems"),
		strings.Join(kinds, ", "),
		failed, plural(failed, wordFile, wordFiles),
		scanned,
	)
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}
	count := func(n int) string {
		return s.SummaryValue.Render(strconv.Itoa(n))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files discovered", count(stats.FilesDiscovered))
	row("Files scanned", count(stats.FilesScanned))
	if stats.FilesDuplicate > 0 {
		row("Duplicates", count(stats.FilesDuplicate))
	}
	if stats.FilesFailed > 0 {
		row("Files failed", s.Failure.Render(strconv.Itoa(stats.FilesFailed)))
	}
	if stats.FilesErrored > 0 {
		row("Files unreadable", s.Failure.Render(strconv.Itoa(stats.FilesErrored)))
	}

	builder.WriteString("\n")

	scanned := stats.Scan
	row("Bytes", count(scanned.Bytes))
	row("Events", count(scanned.Events()))
	row("  Elements", count(scanned.Elements))
	if scanned.Declarations > 0 {
		row("  Declarations", count(scanned.Declarations))
	}
	row("  Attributes", count(scanned.Attrs))
	row("  Text runs", count(scanned.Texts))
	if scanned.Comments > 0 {
		row("  Comments", count(scanned.Comments))
	}
	row("Max depth", count(scanned.MaxDepth))
	if stats.Elapsed > 0 {
		row("Elapsed", s.Dim.Render(stats.Elapsed.Round(time.Microsecond).String()))
	}

	if stats.SyntaxErrors > 0 || stats.BalanceErrors > 0 {
		builder.WriteString("\n")
		if stats.SyntaxErrors > 0 {
			row("Syntax errors", s.Error.Render(strconv.Itoa(stats.SyntaxErrors)))
		}
		if stats.BalanceErrors > 0 {
			row("Balance errors", s.Warning.Render(strconv.Itoa(stats.BalanceErrors)))
		}
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesFailed > 0 || stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Scan failed"))
	default:
		builder.WriteString(s.Success.Render("Scan passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
