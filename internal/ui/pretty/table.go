package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/xml1/pkg/runner"
	"github.com/yaklabco/xml1/pkg/scan"
)

// Table formatting constants.
const (
	tablePadding       = 2
	tableColumnCount   = 4 // FILE, LOC, KIND, MESSAGE
	perFileColumnCount = 3 // LOC, KIND, MESSAGE
	minFileWidth       = 20
	minLocWidth        = 8
	minKindWidth       = 7
	minMessageWidth    = 35
	heavySeparator     = "="
	lightSeparator     = "-"
	defaultTermWidth   = 100
)

// TableRow represents a single row in the findings table.
type TableRow struct {
	File     string
	Location string
	Kind     string
	Message  string
}

// FindingToTableRow converts a finding to a table row.
func FindingToTableRow(finding Finding) TableRow {
	loc := "-"
	if finding.Position.IsValid() {
		loc = fmt.Sprintf("%d:%d", finding.Position.Line, finding.Position.Column)
	}
	return TableRow{
		File:     finding.Path,
		Location: loc,
		Kind:     finding.Kind,
		Message:  finding.Message,
	}
}

// TableFormatter formats findings as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// FormatTable formats runner results as a styled table. Files are separated
// by light rules; a file has at most one finding.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	findings := Findings(result)
	if len(findings) == 0 {
		return ""
	}

	rows := make([]TableRow, 0, len(findings))
	for _, finding := range findings {
		rows = append(rows, FindingToTableRow(finding))
	}

	colWidths := t.calculateColumnWidths(rows)

	var builder strings.Builder

	builder.WriteString(t.formatHeader(colWidths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(colWidths.total(), heavySeparator))
	builder.WriteString("\n")

	for idx, row := range rows {
		if idx > 0 && row.File != rows[idx-1].File {
			builder.WriteString(t.formatSeparator(colWidths.total(), lightSeparator))
			builder.WriteString("\n")
		}
		builder.WriteString(t.formatRow(row, colWidths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(colWidths.total(), heavySeparator))
	builder.WriteString("\n")

	builder.WriteString(t.formatLegend())
	builder.WriteString("\n")

	return builder.String()
}

// FormatFileTable formats a single file's finding as a standalone table.
func (t *TableFormatter) FormatFileTable(file runner.FileOutcome) string {
	finding, ok := FindingOf(file)
	if !ok {
		return ""
	}
	row := FindingToTableRow(finding)

	widths := t.calculateColumnWidths([]TableRow{row})
	widths.file = 0
	total := widths.total()

	var builder strings.Builder

	header := fmt.Sprintf(" %-*s  %-*s  %-*s ",
		widths.loc, "LOC",
		widths.kind, "KIND",
		widths.message, "MESSAGE",
	)
	builder.WriteString(t.styles.TableHeader.Render(header))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(total, heavySeparator))
	builder.WriteString("\n")

	content := fmt.Sprintf(" %-*s  %-*s  %-*s ",
		widths.loc, truncateString(row.Location, widths.loc),
		widths.kind, truncateString(row.Kind, widths.kind),
		widths.message, truncateString(row.Message, widths.message),
	)
	builder.WriteString(t.getRowStyle(row.Kind).Render(content))
	builder.WriteString("\n")

	builder.WriteString(t.formatSeparator(total, heavySeparator))
	builder.WriteString("\n")

	return builder.String()
}

type columnWidths struct {
	file    int
	loc     int
	kind    int
	message int
}

func (w columnWidths) total() int {
	columns := tableColumnCount
	if w.file == 0 {
		columns = perFileColumnCount
	}
	return w.file + w.loc + w.kind + w.message + tablePadding*columns
}

// calculateColumnWidths determines optimal column widths based on content.
func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{
		file:    minFileWidth,
		loc:     minLocWidth,
		kind:    minKindWidth,
		message: minMessageWidth,
	}

	for _, row := range rows {
		widths.file = max(widths.file, len(row.File))
		widths.loc = max(widths.loc, len(row.Location))
		widths.kind = max(widths.kind, len(row.Kind))
		widths.message = max(widths.message, len(row.Message))
	}

	// Shrink the message first, then the file path.
	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.message = max(minMessageWidth, widths.message-excess)
	}
	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.file = max(minFileWidth, widths.file-excess)
	}

	return widths
}

// formatHeader formats the table header row.
func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s ",
		widths.file, "FILE",
		widths.loc, "LOC",
		widths.kind, "KIND",
		widths.message, "MESSAGE",
	)
	return t.styles.TableHeader.Render(header)
}

// formatSeparator formats a separator line.
func (t *TableFormatter) formatSeparator(width int, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, width))
}

// formatRow formats a single table row with kind-based styling.
func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	content := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s ",
		widths.file, truncateFilePath(row.File, widths.file),
		widths.loc, truncateString(row.Location, widths.loc),
		widths.kind, truncateString(row.Kind, widths.kind),
		widths.message, truncateString(row.Message, widths.message),
	)
	return t.getRowStyle(row.Kind).Render(content)
}

// getRowStyle returns the style for a finding kind.
func (t *TableFormatter) getRowStyle(kind string) lipgloss.Style {
	switch kind {
	case KindSyntax:
		return t.styles.TableSyntaxRow
	case KindBalance:
		return t.styles.TableBalanceRow
	case KindIO:
		return t.styles.TableIORow
	default:
		return lipgloss.NewStyle()
	}
}

// formatLegend formats the legend explaining the row colors.
func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(
			" Legend: syntax = malformed markup | balance = unmatched tags | io = unreadable file",
		)
	}

	return t.styles.TableLegend.Render(
		fmt.Sprintf(" Legend: %s = malformed markup  %s = unmatched tags  %s = unreadable file",
			t.styles.TableSyntaxRow.Render(" syntax "),
			t.styles.TableBalanceRow.Render(" balance "),
			t.styles.TableIORow.Render(" io "),
		),
	)
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%d files scanned", stats.FilesScanned))
	parts = append(parts, fmt.Sprintf("%d events", stats.Scan.Events()))

	if stats.SyntaxErrors > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d syntax", stats.SyntaxErrors)))
	}
	if stats.BalanceErrors > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d balance", stats.BalanceErrors)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, t.styles.Info.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored)))
	}

	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}

	return " " + strings.Join(parts, " | ")
}

// FormatBenchTable formats bench results grouped by file.
func (t *TableFormatter) FormatBenchTable(path string, results []scan.BenchResult) string {
	var builder strings.Builder

	header := fmt.Sprintf(" %-8s  %12s  %10s  %12s  %10s ", "ENGINE", "BYTES", "EVENTS", "PER SCAN", "MB/s")
	builder.WriteString(t.styles.FormatFileHeader(path, ""))
	builder.WriteString("\n")
	builder.WriteString(t.styles.TableHeader.Render(header))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(len(header), lightSeparator))
	builder.WriteString("\n")

	for _, res := range results {
		builder.WriteString(fmt.Sprintf(" %-8s  %12d  %10d  %12s  %10.1f \n",
			res.EngineName, res.Bytes, res.Events, res.PerScan(), res.MBPerSecond()))
	}

	return builder.String()
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
