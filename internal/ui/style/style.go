// Package style provides the colors and icons shared by the logger and the CLI tables.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
)

// Heading renders a bold section heading for CLI output.
func Heading(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(Iris).Render(s)
}

// Status renders a check or cross for a boolean health flag.
func Status(ok bool) string {
	if ok {
		return lipgloss.NewStyle().Foreground(Green).Render(Check)
	}
	return lipgloss.NewStyle().Foreground(Red).Render(Cross)
}
