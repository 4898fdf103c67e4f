package diagnostics

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
)

// Renderer turns diagnostics into terminal text.
type Renderer struct {
	color bool

	errorStyle   lipgloss.Style
	warningStyle lipgloss.Style
	infoStyle    lipgloss.Style
	gutterStyle  lipgloss.Style
	okStyle      lipgloss.Style
}

// NewRenderer creates a renderer. With color false the output is plain text.
func NewRenderer(color bool) *Renderer {
	return &Renderer{
		color:        color,
		errorStyle:   lipgloss.NewStyle().Foreground(colorError).Bold(true),
		warningStyle: lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
		infoStyle:    lipgloss.NewStyle().Foreground(colorInfo),
		gutterStyle:  lipgloss.NewStyle().Foreground(colorMuted),
		okStyle:      lipgloss.NewStyle().Foreground(colorSuccess),
	}
}

func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

func (r *Renderer) severityStyle(s Severity) lipgloss.Style {
	switch s {
	case Error:
		return r.errorStyle
	case Warning:
		return r.warningStyle
	default:
		return r.infoStyle
	}
}

// Render formats d as
//
//	error[Invalid token]: No valid instruction found for token '5'
//	  --> main.ju:1:1
//	   |
//	 1 | 5 + 5
//	   | ^
func (r *Renderer) Render(d Diagnostic) string {
	var sb strings.Builder

	header := fmt.Sprintf("%s[%s]", d.Severity, d.Title)
	sb.WriteString(r.paint(r.severityStyle(d.Severity), header))
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	sb.WriteByte('\n')

	if d.Line > 0 {
		sb.WriteString(r.paint(r.gutterStyle, "  --> "))
		fmt.Fprintf(&sb, "%s:%d:%d\n", d.File, d.Line, d.Column)
	}

	if d.Cause != "" {
		for _, line := range strings.Split(strings.TrimRight(d.Cause, "\n"), "\n") {
			sb.WriteString(r.paint(r.gutterStyle, "   | "))
			if strings.TrimSpace(line) == "^" {
				sb.WriteString(r.paint(r.severityStyle(d.Severity), line))
			} else {
				sb.WriteString(line)
			}
			sb.WriteByte('\n')
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}

// Summary formats the closing line of a flush.
func (r *Renderer) Summary(text string, failed bool) string {
	if failed {
		return r.paint(r.errorStyle, text)
	}
	return r.paint(r.warningStyle, text)
}

// OK formats the line printed when a check finds nothing.
func (r *Renderer) OK(text string) string {
	return r.paint(r.okStyle, text)
}
