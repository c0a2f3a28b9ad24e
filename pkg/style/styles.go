// Package style holds the lipgloss styles shared by the CLI output.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Colors
var (
	SuccessColor = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#E57373"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#F57F17", Dark: "#FFD54F"}
	HeadingColor = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#64B5F6"}
	MutedColor   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"}
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	KeyStyle = lipgloss.NewStyle().
			Bold(true)
)

// isTerminal reports whether stdout is attached to a terminal; plain
// text goes out when it is not
func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func render(s lipgloss.Style, text string) string {
	if !isTerminal() {
		return text
	}
	return s.Render(text)
}

// Title renders heading text
func Title(text string) string { return render(TitleStyle, text) }

// Success renders text in the success style
func Success(text string) string { return render(SuccessStyle, text) }

// Error renders text in the error style
func Error(text string) string { return render(ErrorStyle, text) }

// Warning renders text in the warning style
func Warning(text string) string { return render(WarningStyle, text) }

// Muted renders de-emphasized text
func Muted(text string) string { return render(MutedStyle, text) }

// Key renders a preference key or command name
func Key(text string) string { return render(KeyStyle, text) }
