package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Colors is the palette used for command output.
var Colors = struct {
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
}{
	Success: lipgloss.Color("#00B894"), // Green
	Warning: lipgloss.Color("#FDCB6E"), // Yellow
	Error:   lipgloss.Color("#D63031"), // Red
	Muted:   lipgloss.Color("#636E72"), // Gray
}

var (
	successStyle = lipgloss.NewStyle().Foreground(Colors.Success)
	warningStyle = lipgloss.NewStyle().Foreground(Colors.Warning)
	errorStyle   = lipgloss.NewStyle().Foreground(Colors.Error).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(Colors.Muted)
)

func printSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, successStyle.Render(msg))
}

func printWarning(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, warningStyle.Render(msg))
}

func printHint(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, mutedStyle.Render(msg))
}
