// Package cli implements the clientledger commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/robinvdvleuten/clientledger/loader"
)

// A statusKind selects the symbol and colour of a status line.
type statusKind int

const (
	statusSuccess statusKind = iota
	statusError
	statusInfo
)

var (
	statusSymbols = [...]string{
		statusSuccess: "✓",
		statusError:   "✗",
		statusInfo:    "→",
	}

	statusStyles = [...]lipgloss.Style{
		statusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787")),
		statusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		statusInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")),
	}

	pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D7D7"))
)

// status writes one line prefixed with the symbol of kind. Error messages are
// coloured as a whole.
func status(w io.Writer, kind statusKind, message string) {
	style := statusStyles[kind]
	if kind == statusError {
		message = style.Render(message)
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", style.Render(statusSymbols[kind]), message)
}

func printSuccess(w io.Writer, message string) { status(w, statusSuccess, message) }
func printError(w io.Writer, message string)   { status(w, statusError, message) }

func printInfof(w io.Writer, format string, args ...any) {
	status(w, statusInfo, fmt.Sprintf(format, args...))
}

// confirm asks a yes/no question; replaced in tests.
var confirm = promptYesNo

// promptYesNo shows a huh confirmation on the terminal. Without a terminal
// on stdin the answer is always no, so unattended runs never overwrite.
func promptYesNo(question string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, nil
	}

	var yes bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Overwrite").
		Negative("Keep").
		WithButtonAlignment(lipgloss.Left).
		Value(&yes).
		Run()
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	return yes, nil
}

// displayName returns the name of an input as shown in status lines.
func displayName(path string) string {
	if path == loader.StdinPath || path == "" {
		return "stdin"
	}
	return filepath.Base(path)
}
