// Package output styles the report text the CLI writes to stderr: outcome
// counts, rejection reasons and the telemetry timing tree.
package output

import (
	"io"

	"github.com/muesli/termenv"
)

// ANSI palette indexes.
const (
	colorYellow  = "3"
	colorMagenta = "5"
)

// Styles renders report fragments for one writer. Styling is dropped when the
// writer is not a terminal.
type Styles struct {
	out *termenv.Output
}

func NewStyles(w io.Writer) *Styles {
	return &Styles{out: termenv.NewOutput(w)}
}

func (s *Styles) style(text string) termenv.Style {
	return s.out.String(text)
}

// Amount highlights a balance or a count.
func (s *Styles) Amount(text string) string {
	return s.style(text).Foreground(s.out.Color(colorMagenta)).String()
}

// Reason highlights a rejection reason name.
func (s *Styles) Reason(text string) string {
	return s.style(text).Foreground(s.out.Color(colorYellow)).String()
}

// Keyword is used for timer names.
func (s *Styles) Keyword(text string) string {
	return s.style(text).Bold().String()
}

func (s *Styles) Dim(text string) string {
	return s.style(text).Faint().String()
}

// Timing renders a duration; slow ones stand out in bold yellow.
func (s *Styles) Timing(text string, slow bool) string {
	if slow {
		return s.style(text).Foreground(s.out.Color(colorYellow)).Bold().String()
	}
	return s.Dim(text)
}
