package output

import "github.com/charmbracelet/lipgloss"

// theme groups the styles of the table format. Colors adapt to light and
// dark terminals; lipgloss drops them entirely when stdout is not a TTY.
type theme struct {
	box     lipgloss.Style
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	ok      lipgloss.Style
	partial lipgloss.Style
	muted   lipgloss.Style
	size    lipgloss.Style
	heading lipgloss.Style
}

var (
	accent = lipgloss.AdaptiveColor{Light: "#5A3FD0", Dark: "#9D86FF"}
	green  = lipgloss.AdaptiveColor{Light: "#1B7F3B", Dark: "#5FD787"}
	amber  = lipgloss.AdaptiveColor{Light: "#A15C00", Dark: "#FFAF00"}
	grey   = lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#8A8A8A"}
	ink    = lipgloss.AdaptiveColor{Light: "#1C1C1C", Dark: "#EEEEEE"}
)

func newTheme() theme {
	return theme{
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			MarginBottom(1),
		title:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		label:   lipgloss.NewStyle().Foreground(grey).Width(9),
		value:   lipgloss.NewStyle().Foreground(ink),
		ok:      lipgloss.NewStyle().Foreground(green),
		partial: lipgloss.NewStyle().Bold(true).Foreground(amber),
		muted:   lipgloss.NewStyle().Foreground(grey),
		size:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		heading: lipgloss.NewStyle().Bold(true).Foreground(grey).Underline(true),
	}
}
