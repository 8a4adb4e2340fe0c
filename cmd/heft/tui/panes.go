package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/heft/pkg/heft/types"
)

type paneID int

const (
	paneDirs paneID = iota
	paneFiles
)

func (p paneID) String() string {
	if p == paneDirs {
		return "Top directories (direct files)"
	}
	return "Top files"
}

// rankingPane is a scrollable SIZE | PATH list.
type rankingPane struct {
	entries []types.Entry
	cursor  int
	offset  int
}

func (p *rankingPane) setEntries(entries []types.Entry) {
	p.entries = entries
	p.clamp()
}

func (p *rankingPane) move(delta int) {
	p.cursor += delta
	p.clamp()
}

func (p *rankingPane) clamp() {
	if p.cursor >= len(p.entries) {
		p.cursor = len(p.entries) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// selected returns the entry under the cursor.
func (p *rankingPane) selected() (types.Entry, bool) {
	if len(p.entries) == 0 {
		return types.Entry{}, false
	}
	return p.entries[p.cursor], true
}

// scrollTo keeps the cursor within rows visible lines.
func (p *rankingPane) scrollTo(rows int) {
	if rows < 1 {
		rows = 1
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+rows {
		p.offset = p.cursor - rows + 1
	}
	if p.offset > max(len(p.entries)-rows, 0) {
		p.offset = max(len(p.entries)-rows, 0)
	}
}

// formatRow renders "SIZE  |  PATH" the way the lists always have.
func formatRow(e types.Entry, sizeWidth, width int) string {
	size := padLeft(types.FormatSizeCompact(e.Size), sizeWidth)
	pathWidth := max(width-sizeWidth-5, 8)
	return fmt.Sprintf("%s  |  %s", size, truncatePath(e.Path, pathWidth))
}

func (p *rankingPane) view(title string, width, rows int, active bool) string {
	p.scrollTo(rows)

	inner := max(width-4, 20)
	var b strings.Builder

	heading := titleStyle.Render(title)
	if len(p.entries) > 0 {
		heading += mutedTextStyle.Render(fmt.Sprintf("  %d/%d", p.cursor+1, len(p.entries)))
	}
	b.WriteString(heading)
	b.WriteString("\n")

	sizeWidth := 0
	for _, e := range p.entries {
		sizeWidth = max(sizeWidth, len(types.FormatSizeCompact(e.Size)))
	}

	if len(p.entries) == 0 {
		b.WriteString(mutedTextStyle.Render("(nothing yet)"))
	}

	end := min(p.offset+rows, len(p.entries))
	for i := p.offset; i < end; i++ {
		line := formatRow(p.entries[i], sizeWidth, inner-2)
		switch {
		case i == p.cursor && active:
			b.WriteString(cursorStyle.Render("> ") + selectedItemStyle.Render(line))
		case i == p.cursor:
			b.WriteString("  " + sizeStyle.Render(line))
		default:
			b.WriteString("  " + normalItemStyle.Render(line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	style := paneStyle
	if active {
		style = activePaneStyle
	}
	return style.Width(width - 2).Render(b.String())
}

// removeEntry returns entries without path, reusing nothing from the input.
func removeEntry(entries []types.Entry, path string) ([]types.Entry, bool) {
	out := make([]types.Entry, 0, len(entries))
	found := false
	for _, e := range entries {
		if e.Path == path {
			found = true
			continue
		}
		out = append(out, e)
	}
	return out, found
}

// joinPanes lays the two panes side by side on wide terminals and stacks
// them otherwise.
func joinPanes(width int, left, right string) string {
	if width >= 140 {
		return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}
	return lipgloss.JoinVertical(lipgloss.Left, left, right)
}
