package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true)
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	WarnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	OKStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	SelectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	FaintStyle    = lipgloss.NewStyle().Faint(true)
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

// IsTerminalWriter reports whether w is a terminal file.
func IsTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && IsTerminal(f)
}

// Heading renders a section title.
func Heading(s string) string {
	return TitleStyle.Render(s)
}
