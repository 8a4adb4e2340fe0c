package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jamesainslie/heft/pkg/heft/roots"
	"github.com/jamesainslie/heft/pkg/heft/types"
)

type pickerFocus int

const (
	focusList pickerFocus = iota
	focusPath
	focusMax
)

// picker chooses the scan root and the ranking size.
type picker struct {
	roots      []roots.Root
	cursor     int
	focus      pickerFocus
	path       textinput.Model
	maxResults textinput.Model
}

func newPicker(list []roots.Root, root string, maxResults int) picker {
	path := textinput.New()
	path.Prompt = "Path: "
	path.Placeholder = "directory to scan"
	path.CharLimit = 4096

	mr := textinput.New()
	mr.Prompt = "Max results: "
	mr.CharLimit = 6
	mr.SetValue(strconv.Itoa(maxResults))

	p := picker{roots: list, path: path, maxResults: mr}
	switch {
	case root != "":
		p.path.SetValue(root)
		for i, r := range list {
			if r.Path == root {
				p.cursor = i
			}
		}
	case len(list) > 0:
		p.path.SetValue(list[0].Path)
	}
	return p
}

// root returns the chosen path, trimmed.
func (p picker) root() string {
	return strings.TrimSpace(p.path.Value())
}

func (p *picker) setFocus(f pickerFocus) {
	p.focus = f
	p.path.Blur()
	p.maxResults.Blur()
	switch f {
	case focusPath:
		p.path.Focus()
		p.path.CursorEnd()
	case focusMax:
		p.maxResults.Focus()
		p.maxResults.CursorEnd()
	}
}

func (p *picker) move(delta int) {
	if len(p.roots) == 0 {
		return
	}
	p.cursor = min(max(p.cursor+delta, 0), len(p.roots)-1)
	p.path.SetValue(p.roots[p.cursor].Path)
}

// update handles keys other than enter, esc, tab and ctrl+c.
func (p picker) update(msg tea.KeyMsg) (picker, tea.Cmd) {
	var cmd tea.Cmd
	switch p.focus {
	case focusList:
		switch msg.String() {
		case "up", "k":
			p.move(-1)
		case "down", "j":
			p.move(1)
		}
	case focusPath:
		p.path, cmd = p.path.Update(msg)
	case focusMax:
		p.maxResults, cmd = p.maxResults.Update(msg)
	}
	return p, cmd
}

func (p picker) view(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Choose a scan root"))
	b.WriteString("\n\n")

	if len(p.roots) == 0 {
		b.WriteString(mutedTextStyle.Render("  no roots found, type a path below"))
		b.WriteString("\n")
	}
	for i, r := range p.roots {
		detail := string(r.Kind)
		if r.TotalBytes > 0 {
			detail = fmt.Sprintf("%s, %s free of %s", r.Kind,
				types.FormatSize(r.FreeBytes), types.FormatSize(r.TotalBytes))
		}
		line := fmt.Sprintf("%-16s %s  %s", truncatePath(r.Label, 16), truncatePath(r.Path, max(width-50, 20)),
			mutedTextStyle.Render("("+detail+")"))
		if i == p.cursor {
			prefix := "  "
			if p.focus == focusList {
				prefix = cursorStyle.Render("> ")
			}
			b.WriteString(prefix + selectedItemStyle.Render(line))
		} else {
			b.WriteString("  " + normalItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.path.View())
	b.WriteString("\n")
	b.WriteString(p.maxResults.View())
	b.WriteString("\n\n")
	b.WriteString(mutedTextStyle.Render("tab: next field  enter: start scan  esc: back  ctrl+c: quit"))
	return b.String()
}
