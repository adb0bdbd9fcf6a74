package cli

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/clientledger/errors"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
	errLineNoStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5F5F5F", Dark: "#5F5F5F"})
)

// ErrorRenderer renders row errors with terminal styling and the input lines
// around them.
type ErrorRenderer struct {
	lines []string
}

// NewErrorRenderer creates a renderer. lines may be nil, for example when the
// input was read from stdin.
func NewErrorRenderer(lines []string) *ErrorRenderer {
	return &ErrorRenderer{lines: lines}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	pos, ok := errors.PositionOf(err, r.lines)
	if !ok || r.lines == nil {
		return statusStyles[statusError].Render(err.Error())
	}
	return r.renderWithSourceContext(pos, err.Error())
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(strings.TrimRight(r.Render(err), "\n"))

		if i < len(errs)-1 {
			if r.lines != nil {
				buf.WriteString("\n\n")
			} else {
				buf.WriteByte('\n')
			}
		}
	}

	return buf.String()
}

func (r *ErrorRenderer) renderWithSourceContext(pos errors.Position, message string) string {
	var buf strings.Builder

	buf.WriteString(statusStyles[statusError].Render(message))
	buf.WriteString("\n\n")

	window := errors.ContextLines(r.lines, pos)
	width := 1
	if len(window) > 0 {
		width = len(strconv.Itoa(window[len(window)-1].Number))
	}

	for _, ln := range window {
		number := strconv.Itoa(ln.Number)
		gutter := strings.Repeat(" ", width-len(number)) + number + " | "

		buf.WriteString("   ")
		buf.WriteString(errLineNoStyle.Render(gutter))
		buf.WriteString(errContextStyle.Render(ln.Text))
		buf.WriteByte('\n')

		if ln.Number == pos.Line && pos.Column > 0 {
			buf.WriteString("   ")
			buf.WriteString(strings.Repeat(" ", len(gutter)+pos.Column-1))
			buf.WriteString(errCaretStyle.Render("^"))
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}
