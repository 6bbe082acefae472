package cli

import (
	"cmp"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/xml1/internal/ui/pretty"
	"github.com/yaklabco/xml1/pkg/config"
	"github.com/yaklabco/xml1/pkg/scan"
	"github.com/yaklabco/xml1/pkg/simd"
)

// Command groups listed by root help.
const (
	groupScan  = "scan"
	groupSetup = "setup"
)

// Flag annotations read by the help renderer.
const (
	// scanFlagAnnotation marks flags that shape scanner behavior.
	scanFlagAnnotation = "xml1/scan"

	// formatFlagAnnotation marks a flag taking an output format.
	formatFlagAnnotation = "xml1/format"
)

func commandGroups() []*cobra.Group {
	return []*cobra.Group{
		{ID: groupScan, Title: "Scanning Commands:"},
		{ID: groupSetup, Title: "Setup Commands:"},
	}
}

// annotateFlags sets annotation on the named flags of cmd.
func annotateFlags(cmd *cobra.Command, annotation string, names ...string) {
	for _, name := range names {
		_ = cmd.Flags().SetAnnotation(name, annotation, []string{"true"})
	}
}

// helpStyles holds the lipgloss styles of command help.
type helpStyles struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Command lipgloss.Style
	Flag    lipgloss.Style
	Type    lipgloss.Style
	Note    lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{Title: plain, Heading: plain, Command: plain, Flag: plain, Type: plain, Note: plain}
	}
	return helpStyles{
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Command: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Type:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Note:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
	}
}

// HelpRenderer writes help and usage for xml1 commands. Commands are listed
// by group, scanner flags get their own section, and commands that scan or
// report also list the engines and output formats.
type HelpRenderer struct {
	colorMode *string
}

// NewHelpRenderer creates a renderer. colorMode is read at render time so
// that a parsed --color flag applies to help output.
func NewHelpRenderer(colorMode *string) *HelpRenderer {
	return &HelpRenderer{colorMode: colorMode}
}

// Apply installs the renderer on cmd; subcommands inherit it.
func (h *HelpRenderer) Apply(cmd *cobra.Command) {
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if _, err := io.WriteString(c.OutOrStdout(), h.Help(c)); err != nil {
			c.PrintErrln(err)
		}
	})
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		_, err := io.WriteString(c.OutOrStderr(), h.Usage(c))
		return err
	})
}

func (h *HelpRenderer) styles(w io.Writer) helpStyles {
	mode := "auto"
	if h.colorMode != nil {
		mode = *h.colorMode
	}
	return newHelpStyles(pretty.IsColorEnabled(mode, w))
}

// Help renders the full help of cmd: title, description and usage.
func (h *HelpRenderer) Help(cmd *cobra.Command) string {
	styles := h.styles(cmd.OutOrStdout())

	var b strings.Builder
	b.WriteString(styles.Title.Render(cmd.CommandPath()))
	if cmd.Version != "" {
		b.WriteString(" " + styles.Note.Render(cmd.Version))
	}
	b.WriteString("\n\n")
	if text := strings.TrimSpace(cmp.Or(cmd.Long, cmd.Short)); text != "" {
		b.WriteString(trimLines(text))
		b.WriteString("\n\n")
	}
	b.WriteString(h.render(cmd, styles))
	return b.String()
}

// Usage renders the usage block of cmd.
func (h *HelpRenderer) Usage(cmd *cobra.Command) string {
	return h.render(cmd, h.styles(cmd.OutOrStderr()))
}

func (h *HelpRenderer) render(cmd *cobra.Command, styles helpStyles) string {
	var b strings.Builder

	heading(&b, styles, "Usage:")
	if cmd.Runnable() {
		b.WriteString("  " + styles.Command.Render(cmd.UseLine()) + "\n")
	}
	if cmd.HasAvailableSubCommands() {
		b.WriteString("  " + styles.Command.Render(cmd.CommandPath()+" [command]") + "\n")
	}

	if len(cmd.Aliases) > 0 {
		heading(&b, styles, "Aliases:")
		b.WriteString("  " + strings.Join(cmd.Aliases, ", ") + "\n")
	}
	if cmd.HasExample() {
		heading(&b, styles, "Examples:")
		b.WriteString(trimLines(cmd.Example) + "\n")
	}

	writeCommands(&b, styles, cmd)

	local, scanner := splitScanFlags(cmd.LocalFlags())
	writeFlags(&b, styles, "Scanner Flags:", scanner)
	writeFlags(&b, styles, "Flags:", local)
	writeFlags(&b, styles, "Global Flags:", cmd.InheritedFlags())

	if scanner.HasAvailableFlags() {
		writeEngines(&b, styles)
	}
	if hasAnnotatedFlag(cmd.LocalFlags(), formatFlagAnnotation) {
		writeFormats(&b, styles)
	}

	if cmd.HasAvailableSubCommands() {
		b.WriteString("\nUse \"" + styles.Command.Render(cmd.CommandPath()+" [command] --help") +
			"\" for more information about a command.\n")
	}
	return b.String()
}

func heading(b *strings.Builder, styles helpStyles, title string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(styles.Heading.Render(title) + "\n")
}

// writeCommands lists subcommands by group, then the ungrouped ones.
func writeCommands(b *strings.Builder, styles helpStyles, cmd *cobra.Command) {
	if !cmd.HasAvailableSubCommands() {
		return
	}

	write := func(title, groupID string) {
		var listed bool
		for _, sub := range cmd.Commands() {
			if sub.GroupID != groupID || (!sub.IsAvailableCommand() && sub.Name() != "help") {
				continue
			}
			if !listed {
				heading(b, styles, title)
				listed = true
			}
			b.WriteString("  " + styles.Command.Render(rpad(sub.Name(), sub.NamePadding())) + " " + sub.Short + "\n")
		}
	}

	for _, group := range cmd.Groups() {
		write(group.Title, group.ID)
	}
	write("Additional Commands:", "")
}

// splitScanFlags separates the flags annotated as scanner flags.
func splitScanFlags(flags *pflag.FlagSet) (*pflag.FlagSet, *pflag.FlagSet) {
	local := pflag.NewFlagSet("flags", pflag.ContinueOnError)
	scanner := pflag.NewFlagSet("scanner", pflag.ContinueOnError)
	flags.VisitAll(func(flag *pflag.Flag) {
		if _, ok := flag.Annotations[scanFlagAnnotation]; ok {
			scanner.AddFlag(flag)
			return
		}
		local.AddFlag(flag)
	})
	return local, scanner
}

func hasAnnotatedFlag(flags *pflag.FlagSet, annotation string) bool {
	var found bool
	flags.VisitAll(func(flag *pflag.Flag) {
		if _, ok := flag.Annotations[annotation]; ok {
			found = true
		}
	})
	return found
}

func writeFlags(b *strings.Builder, styles helpStyles, title string, flags *pflag.FlagSet) {
	if flags == nil || !flags.HasAvailableFlags() {
		return
	}
	heading(b, styles, title)
	for _, line := range strings.Split(strings.TrimSuffix(flags.FlagUsages(), "\n"), "\n") {
		b.WriteString(styleFlagLine(styles, line) + "\n")
	}
}

// styleFlagLine styles one line of pflag usage output. Names and value type
// are separated from the description by at least two spaces; the original
// padding is kept so descriptions stay aligned.
func styleFlagLine(styles helpStyles, line string) string {
	trimmed := strings.TrimLeft(line, " ")
	gap := strings.Index(trimmed, "  ")
	if trimmed == "" || gap < 0 {
		return line
	}
	indent := line[:len(line)-len(trimmed)]
	spec, rest := trimmed[:gap], trimmed[gap:]
	desc := strings.TrimLeft(rest, " ")
	padding := rest[:len(rest)-len(desc)]

	tokens := strings.Fields(spec)
	for i, token := range tokens {
		if !strings.HasPrefix(token, "-") {
			tokens[i] = styles.Type.Render(token)
			continue
		}
		name, comma := strings.CutSuffix(token, ",")
		tokens[i] = styles.Flag.Render(name)
		if comma {
			tokens[i] += ","
		}
	}
	return indent + strings.Join(tokens, " ") + padding + desc
}

func writeEngines(b *strings.Builder, styles helpStyles) {
	heading(b, styles, "Engines:")
	for _, engine := range scan.Engines() {
		line := "  " + rpad(engine.String(), 8)
		switch engine {
		case scan.EngineScalar:
			line += "reference scanner, one rune at a time"
		case scan.EngineSIMD:
			line += "16-byte token search (" + simd.Kernel() + " kernel)"
		}
		if engine == scan.DefaultEngine {
			line += " " + styles.Note.Render("default")
		}
		b.WriteString(line + "\n")
	}
}

func writeFormats(b *strings.Builder, styles helpStyles) {
	heading(b, styles, "Output Formats:")
	names := make([]string, 0, len(config.OutputFormats()))
	for _, format := range config.OutputFormats() {
		names = append(names, string(format))
	}
	b.WriteString("  " + strings.Join(names, ", ") + " " + styles.Note.Render("default "+string(config.FormatText)) + "\n")
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// trimLines removes trailing spaces and tabs from every line of s.
func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
