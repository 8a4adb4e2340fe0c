// Package tui is the interactive heft front end, built on Bubble Tea and
// Lip Gloss.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. The progress bar reuses the status colors.
var (
	primaryColor   = lipgloss.Color("#E07A2F")
	accentColor    = lipgloss.Color("#4FB3BF")
	successColor   = lipgloss.Color("#3FB950")
	warningColor   = lipgloss.Color("#D29922")
	dangerColor    = lipgloss.Color("#F85149")
	mutedColor     = lipgloss.Color("#7D8590")
	borderColor    = lipgloss.Color("#30363D")
	highlightColor = lipgloss.Color("#2D2A24")
	textColor      = lipgloss.Color("#D0D7DE")
)

func bordered(b lipgloss.Border, c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(b).BorderForeground(c).Padding(0, 1)
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// Frames.
var (
	outerBoxStyle   = bordered(lipgloss.RoundedBorder(), primaryColor)
	paneStyle       = bordered(lipgloss.NormalBorder(), borderColor)
	activePaneStyle = bordered(lipgloss.ThickBorder(), accentColor)
	dividerStyle    = fg(borderColor)
	dialogBoxStyle  = bordered(lipgloss.DoubleBorder(), warningColor).Padding(1, 2).Width(60)
	infoBoxStyle    = dialogBoxStyle.BorderForeground(accentColor)
)

// Text.
var (
	titleStyle        = fg(primaryColor).Bold(true)
	dialogTitleStyle  = fg(warningColor).Bold(true)
	keyStyle          = fg(accentColor).Bold(true)
	mutedTextStyle    = fg(mutedColor)
	errorTextStyle    = fg(dangerColor)
	successTextStyle  = fg(successColor)
	warningTextStyle  = fg(warningColor)
	statusStyle       = fg(textColor).Italic(true).PaddingLeft(1)
	normalItemStyle   = fg(textColor)
	sizeStyle         = fg(accentColor)
	cursorStyle       = fg(primaryColor).Bold(true)
	selectedItemStyle = fg(lipgloss.Color("#FFFFFF")).Background(highlightColor).Bold(true)
)

// Log levels.
var (
	logDebugStyle = fg(mutedColor)
	logInfoStyle  = fg(accentColor)
	logWarnStyle  = fg(warningColor)
	logErrorStyle = fg(dangerColor).Bold(true)
)

// progressColor picks the bar color for a percentage: red below a third,
// yellow below two thirds, green otherwise.
func progressColor(pct float64) lipgloss.Color {
	switch {
	case pct < 33:
		return dangerColor
	case pct < 66:
		return warningColor
	default:
		return successColor
	}
}

func renderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return dividerStyle.Render(strings.Repeat("─", width))
}

// truncatePath shortens path to maxLen cells, keeping the end.
func truncatePath(path string, maxLen int) string {
	r := []rune(path)
	if len(r) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return string(r[:max(maxLen, 0)])
	}
	return "..." + string(r[len(r)-(maxLen-3):])
}

func padLeft(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
