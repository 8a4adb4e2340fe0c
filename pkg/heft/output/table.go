package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/heft/pkg/heft/types"
)

// TableFormatter renders the report for a terminal: a summary box followed
// by the directory and file rankings, styled with lipgloss.
type TableFormatter struct {
	th theme
}

// Format writes the formatted output to the buffer.
func (f *TableFormatter) Format(w *bytes.Buffer, r *types.Report) error {
	w.WriteString(f.header(r))
	w.WriteString("\n")
	w.WriteString(f.section("Largest directories", r.TopDirs))
	w.WriteString("\n")
	w.WriteString(f.section("Largest files", r.TopFiles))
	return nil
}

func (f *TableFormatter) header(r *types.Report) string {
	th := f.th
	field := func(label, value string) string {
		return th.label.Render(label) + value
	}

	status := th.ok.Render(r.Outcome)
	if r.Outcome != "completed" {
		status = th.partial.Render(r.Outcome + " (partial results)")
	}

	return th.box.Render(strings.Join([]string{
		field("Root:", th.value.Render(r.Root)),
		field("Scanned:", th.value.Render(fmt.Sprintf("%s dirs, %s files in %s",
			humanize.Comma(r.ScannedDirs), humanize.Comma(r.ScannedFiles), formatElapsed(r.Elapsed)))),
		field("Status:", status),
	}, "\n"))
}

func (f *TableFormatter) section(title string, entries []types.Entry) string {
	th := f.th
	var sb strings.Builder
	sb.WriteString(th.title.Render(title))
	sb.WriteString("\n")

	if len(entries) == 0 {
		sb.WriteString(th.muted.Render("  nothing found"))
		sb.WriteString("\n")
		return sb.String()
	}

	sizes := make([]string, len(entries))
	width := len("SIZE")
	for i, e := range entries {
		sizes[i] = types.FormatSizeCompact(e.Size)
		width = max(width, lipgloss.Width(sizes[i]))
	}

	fmt.Fprintf(&sb, "  %s  %s\n",
		th.heading.Render(padLeft("SIZE", width)),
		th.heading.Render("PATH"))
	for i, e := range entries {
		fmt.Fprintf(&sb, "  %s  %s\n",
			th.size.Render(padLeft(sizes[i], width)),
			th.value.Render(e.Path))
	}
	fmt.Fprintf(&sb, "  %s\n", th.muted.Render("total "+types.FormatSize(total(entries))))
	return sb.String()
}

func padLeft(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

// formatElapsed rounds durations for display: milliseconds under a second,
// tenths of a second above.
func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

func init() {
	Register("table", "boxed summary and colored rankings", func() Formatter {
		return &TableFormatter{th: newTheme()}
	})
}

var _ Formatter = (*TableFormatter)(nil)
