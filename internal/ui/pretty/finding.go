package pretty

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/xml1/pkg/markup"
	"github.com/yaklabco/xml1/pkg/runner"
	"github.com/yaklabco/xml1/pkg/scan"
)

// Finding kinds.
const (
	KindSyntax  = "syntax"
	KindBalance = "balance"
	KindIO      = "io"
)

const tabWidth = 4

// Finding is one reportable problem in a file.
type Finding struct {
	Path     string
	Position markup.Position
	Offset   int
	Kind     string
	Message  string
}

// FindingOf returns the finding for a failed outcome.
func FindingOf(outcome runner.FileOutcome) (Finding, bool) {
	finding := Finding{Path: outcome.Path, Position: outcome.Position, Offset: -1}

	switch {
	case outcome.Error != nil:
		finding.Kind = KindIO
		finding.Message = outcome.Error.Error()
	case outcome.Syntax != nil:
		finding.Kind = KindSyntax
		finding.Offset = outcome.Syntax.Offset
		finding.Message = SyntaxMessage(outcome.Syntax)
	case outcome.Balance != nil:
		finding.Kind = KindBalance
		if outcome.Balance.Underflow {
			finding.Offset = outcome.Balance.Offset
		}
		finding.Message = BalanceMessage(outcome.Balance)
	default:
		return Finding{}, false
	}

	return finding, true
}

// Findings collects the findings of every failed file, in result order.
func Findings(result *runner.Result) []Finding {
	if result == nil {
		return nil
	}
	var out []Finding
	for _, file := range result.Files {
		if finding, ok := FindingOf(file); ok {
			out = append(out, finding)
		}
	}
	return out
}

// SyntaxMessage describes a syntax error without its offset.
func SyntaxMessage(err *markup.SyntaxError) string {
	if errors.Is(err.Err, markup.ErrUnexpectedChar) {
		return err.Err.Error() + " " + strconv.QuoteRune(err.Char)
	}
	return err.Err.Error()
}

// BalanceMessage describes a balance error without its offset.
func BalanceMessage(err *scan.BalanceError) string {
	if err.Underflow {
		return "closing tag without open element"
	}
	if err.Depth == 1 {
		return "1 element left open"
	}
	return fmt.Sprintf("%d elements left open", err.Depth)
}

// FormatFinding formats a single finding for terminal output.
func (s *Styles) FormatFinding(finding Finding, showContext bool, sourceLine string) string {
	var builder strings.Builder

	location := s.FilePath.Render(finding.Path)
	if finding.Position.IsValid() {
		location = fmt.Sprintf("%s:%d:%d", location, finding.Position.Line, finding.Position.Column)
	}

	builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		location,
		s.FormatKind(finding.Kind),
		s.Message.Render(finding.Message),
	))

	if showContext && sourceLine != "" && finding.Position.IsValid() {
		builder.WriteString(s.FormatSourceContext(sourceLine, finding.Position.Column))
	}

	return builder.String()
}

// FormatKind returns a styled finding kind.
func (s *Styles) FormatKind(kind string) string {
	switch kind {
	case KindSyntax:
		return s.Error.Render(kind)
	case KindBalance:
		return s.Warning.Render(kind)
	case KindIO:
		return s.Info.Render(kind)
	default:
		return kind
	}
}

// FormatSourceContext formats the source line with a caret under the given
// 1-based byte column. Tabs are expanded so the caret stays aligned.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	expanded, caretCol := expandTabs(line, column)
	builder.WriteString(indent + s.SourceLine.Render(expanded) + "\n")

	if caretCol > 0 {
		padding := indent + strings.Repeat(" ", caretCol-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path, note string) string {
	header := s.FilePath.Render(path)
	if note != "" {
		header += s.Dim.Render(" (" + note + ")")
	}
	return header
}

// SourceLine returns the line of doc containing the 1-based line number,
// without its line terminator.
func SourceLine(doc string, line int) string {
	if line < 1 {
		return ""
	}
	for range line - 1 {
		idx := strings.IndexByte(doc, '\n')
		if idx < 0 {
			return ""
		}
		doc = doc[idx+1:]
	}
	if idx := strings.IndexByte(doc, '\n'); idx >= 0 {
		doc = doc[:idx]
	}
	return strings.TrimSuffix(doc, "\r")
}

// expandTabs replaces tabs with spaces and maps a byte column into the result.
func expandTabs(line string, column int) (string, int) {
	if !strings.Contains(line, "\t") {
		return line, column
	}

	var builder strings.Builder
	caretCol := column
	for idx := 0; idx < len(line); idx++ {
		if idx == column-1 {
			caretCol = builder.Len() + 1
		}
		if line[idx] != '\t' {
			builder.WriteByte(line[idx])
			continue
		}
		builder.WriteString(strings.Repeat(" ", tabWidth-builder.Len()%tabWidth))
	}
	if column-1 >= len(line) {
		caretCol = builder.Len() + 1 + (column - 1 - len(line))
	}
	return builder.String(), caretCol
}
