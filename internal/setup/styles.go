package setup

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for the setup form
var (
	primaryColor = lipgloss.Color("#7D56F4") // purple - title, focused field
	mutedColor   = lipgloss.Color("#626262") // gray - hints, blurred labels
	errorColor   = lipgloss.Color("#FF5555") // red - validation messages
	textColor    = lipgloss.Color("#FFFFFF")
)

// Layout constants
const (
	minTerminalWidth = 60
	maxContentWidth  = 100
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(primaryColor).
			Bold(true).
			Padding(0, 1)

	focusedLabelStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Bold(true)

	blurredLabelStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	hintStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)

// contentWidth returns the terminal width clamped to the supported range.
func contentWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minTerminalWidth {
		return minTerminalWidth
	}
	if width > maxContentWidth {
		return maxContentWidth
	}
	return width
}
