package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/example/modswap/internal/modswap"
)

// Renderer prints severity-tagged messages. Colours are picked by lipgloss
// from the capabilities of the output, so plain writers get plain text.
type Renderer struct {
	out    io.Writer
	styles map[modswap.Severity]lipgloss.Style
	title  lipgloss.Style
	rule   lipgloss.Style
}

var severityIcons = map[modswap.Severity]string{
	modswap.SeverityInfo:    "•",
	modswap.SeveritySuccess: "✓",
	modswap.SeverityWarning: "!",
	modswap.SeverityError:   "✗",
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	lg := lipgloss.NewRenderer(out)
	return &Renderer{
		out: out,
		styles: map[modswap.Severity]lipgloss.Style{
			modswap.SeverityInfo:    lg.NewStyle().Foreground(lipgloss.Color("81")),
			modswap.SeveritySuccess: lg.NewStyle().Foreground(lipgloss.Color("42")),
			modswap.SeverityWarning: lg.NewStyle().Foreground(lipgloss.Color("208")),
			modswap.SeverityError:   lg.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		},
		title: lg.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1),
		rule:  lg.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Line formats a single message without writing it.
func (r *Renderer) Line(msg modswap.Message) string {
	style, ok := r.styles[msg.Severity]
	if !ok {
		style = r.styles[modswap.SeverityInfo]
	}
	return style.Render(severityIcons[msg.Severity] + " " + msg.Text)
}

// Render writes each message on its own line.
func (r *Renderer) Render(messages ...modswap.Message) {
	for _, msg := range messages {
		fmt.Fprintln(r.out, r.Line(msg))
	}
}

// Title writes a highlighted heading.
func (r *Renderer) Title(text string) {
	fmt.Fprintln(r.out, r.title.Render(text))
}

// Rule writes a horizontal separator.
func (r *Renderer) Rule() {
	fmt.Fprintln(r.out, r.rule.Render("════════════════════════════════════════════════"))
}

// Plain writes text without styling.
func (r *Renderer) Plain(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}
