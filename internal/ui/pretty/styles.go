// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/xml1/pkg/markup"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Finding kinds
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Finding components
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	Kind       lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Event dump styles
	Offset       lipgloss.Style
	EventPush    lipgloss.Style
	EventPop     lipgloss.Style
	EventAttr    lipgloss.Style
	EventText    lipgloss.Style
	EventComment lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader     lipgloss.Style
	TableBorder     lipgloss.Style
	TableSyntaxRow  lipgloss.Style
	TableBalanceRow lipgloss.Style
	TableIORow      lipgloss.Style
	TableLegend     lipgloss.Style
	TableSeparator  lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style

	color bool
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),

		FilePath:   lipgloss.NewStyle().Bold(true),
		Location:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Kind:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Message:    lipgloss.NewStyle(),
		SourceLine: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Caret:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),

		Offset:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		EventPush:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		EventPop:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		EventAttr:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		EventText:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		EventComment: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		TableHeader:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableBorder:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		TableSyntaxRow:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		TableBalanceRow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		TableIORow:      lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		TableLegend:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		TableSeparator:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),

		color: true,
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:           plain,
		Warning:         plain,
		Info:            plain,
		FilePath:        plain,
		Location:        plain,
		Kind:            plain,
		Message:         plain,
		SourceLine:      plain,
		Caret:           plain,
		Offset:          plain,
		EventPush:       plain,
		EventPop:        plain,
		EventAttr:       plain,
		EventText:       plain,
		EventComment:    plain,
		SummaryTitle:    plain,
		SummaryValue:    plain,
		Success:         plain,
		Failure:         plain,
		TableHeader:     plain,
		TableBorder:     plain,
		TableSyntaxRow:  plain,
		TableBalanceRow: plain,
		TableIORow:      plain,
		TableLegend:     plain,
		TableSeparator:  plain,
		Dim:             plain,
		Bold:            plain,
	}
}

// ColorEnabled reports whether the styles emit ANSI sequences.
func (s *Styles) ColorEnabled() bool {
	return s.color
}

// EventStyle returns the style used for an event kind.
func (s *Styles) EventStyle(kind markup.Kind) lipgloss.Style {
	switch kind {
	case markup.PushElement:
		return s.EventPush
	case markup.PopElement:
		return s.EventPop
	case markup.Attr:
		return s.EventAttr
	case markup.Text:
		return s.EventText
	case markup.Comment:
		return s.EventComment
	default:
		return s.Dim
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
