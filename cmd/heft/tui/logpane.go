package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/heft/pkg/heft/logging"
)

func logLevelStyle(level logging.Level) lipgloss.Style {
	switch level {
	case logging.LevelDebug:
		return logDebugStyle
	case logging.LevelWarn:
		return logWarnStyle
	case logging.LevelError:
		return logErrorStyle
	default:
		return logInfoStyle
	}
}

// logLevelChar returns a single character for the level.
func logLevelChar(level logging.Level) string {
	switch level {
	case logging.LevelDebug:
		return "D"
	case logging.LevelWarn:
		return "W"
	case logging.LevelError:
		return "E"
	default:
		return "I"
	}
}

// formatLogEntry renders one line: "15:04:05 I [engine] message".
func formatLogEntry(e logging.Entry, width int) string {
	line := fmt.Sprintf("%s %s [%s] %s",
		e.Time.Format("15:04:05"), logLevelChar(e.Level), e.Component, e.Message)
	if r := []rune(line); width > 3 && len(r) > width {
		line = string(r[:width-3]) + "..."
	}
	return logLevelStyle(e.Level).Render(line)
}

// renderLogPane shows the newest rows entries of buf, oldest first.
func renderLogPane(buf *logging.LogBuffer, width, rows int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Log"))
	b.WriteString("\n")

	var entries []logging.Entry
	if buf != nil {
		entries = buf.Last(rows)
	}
	if len(entries) == 0 {
		b.WriteString(mutedTextStyle.Render("(no log entries)"))
	}
	for i, e := range entries {
		b.WriteString(formatLogEntry(e, width-6))
		if i < len(entries)-1 {
			b.WriteString("\n")
		}
	}
	return paneStyle.Width(width - 2).Render(b.String())
}
