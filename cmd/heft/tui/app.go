package tui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/heft/pkg/heft/config"
	"github.com/jamesainslie/heft/pkg/heft/engine"
	"github.com/jamesainslie/heft/pkg/heft/filter"
	"github.com/jamesainslie/heft/pkg/heft/history"
	"github.com/jamesainslie/heft/pkg/heft/logging"
	"github.com/jamesainslie/heft/pkg/heft/opener"
	"github.com/jamesainslie/heft/pkg/heft/roots"
	"github.com/jamesainslie/heft/pkg/heft/trash"
	"github.com/jamesainslie/heft/pkg/heft/types"
)

var logger = logging.Get("tui")

// TrashFunc moves a single file to the trash.
type TrashFunc func(ctx context.Context, path string) (trash.Result, error)

// Options configures the TUI. Nil collaborators are replaced with the real
// implementations.
type Options struct {
	// Root starts a scan immediately when set; otherwise the root picker opens.
	Root string

	Config  *config.Config
	Filter  *filter.Filter
	Buffer  *logging.LogBuffer
	History *history.Store

	// Confirm asks before moving a file to the trash.
	Confirm bool

	// NoWatch disables the live removal watch after a scan.
	NoWatch bool

	Engine *engine.Engine
	Roots  func() []roots.Root
	Trash  TrashFunc
	Open   func(path string) error
	Reveal func(path string) error

	// OpenTrash shows the system trash in the file manager.
	OpenTrash func() error
}

type screen int

const (
	screenPicker screen = iota
	screenScan
)

type overlay int

const (
	overlayNone overlay = iota
	overlayConfirm
	overlayFilter
	overlayInspect
)

// startMsg kicks off the scan requested on the command line.
type startMsg struct{}

// Model is the Bubble Tea model for heft.
type Model struct {
	opts    Options
	cfg     *config.Config
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	bar     progress.Model

	ctx    context.Context
	cancel context.CancelFunc

	screen      screen
	overlay     overlay
	picker      picker
	filterInput textinput.Model
	filter      *filter.Filter

	// Scan state. gen increases with every scan started.
	gen        int
	handle     *engine.Handle
	running    bool
	root       string
	snap       engine.Snapshot
	hasSnap    bool
	outcome    engine.Outcome
	startedAt  time.Time
	finishedAt time.Time

	panes  [2]rankingPane
	active paneID

	pending   types.Entry
	inspected inspectedMsg

	showLog bool
	status  string
	watch   *liveWatch

	width  int
	height int
}

// NewModel creates the model and fills in default collaborators.
func NewModel(opts Options) Model {
	if opts.Config == nil {
		opts.Config = &config.Config{
			DefaultPath:     config.DefaultPath,
			MaxResults:      config.DefaultMaxResults,
			UpdateEveryDirs: config.DefaultUpdateEveryDirs,
		}
	}
	if opts.Engine == nil {
		opts.Engine = engine.New()
	}
	if opts.Roots == nil {
		opts.Roots = roots.Discover
	}
	if opts.Trash == nil {
		opts.Trash = trash.MoveToTrash
	}
	if opts.Open == nil {
		opts.Open = opener.Open
	}
	if opts.Reveal == nil {
		opts.Reveal = opener.Reveal
	}
	if opts.OpenTrash == nil {
		opts.OpenTrash = opener.OpenTrash
	}
	if opts.Filter == nil {
		opts.Filter, _ = filter.New()
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "*.iso -*/cache/* >=1G"
	fi.CharLimit = 512

	m := Model{
		opts:        opts,
		cfg:         opts.Config,
		keys:        defaultKeyMap(),
		help:        help.New(),
		spinner:     s,
		bar:         progress.New(progress.WithSolidFill(string(dangerColor)), progress.WithoutPercentage()),
		ctx:         ctx,
		cancel:      cancel,
		filterInput: fi,
		filter:      opts.Filter,
		picker:      newPicker(opts.Roots(), opts.Root, opts.Config.MaxResults),
		active:      paneFiles,
		status:      "Not started",
		width:       100,
		height:      30,
	}
	if opts.Root != "" {
		m.screen = screenScan
	}
	return m
}

// Init starts the scan given on the command line, if any.
func (m Model) Init() tea.Cmd {
	if m.opts.Root == "" {
		return nil
	}
	return func() tea.Msg { return startMsg{} }
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = max(msg.Width-24, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case startMsg:
		return m.beginScan(m.picker.root(), config.ClampMaxResults(m.picker.maxResults.Value()))

	case snapshotMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.snap = msg.snap
		m.hasSnap = true
		m.refreshPanes()
		return m, waitForSnapshot(m.gen, m.handle)

	case scanDoneMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m.finishScan(msg.outcome)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case trashedMsg:
		return m.handleTrashed(msg), nil

	case inspectedMsg:
		if msg.err != nil && msg.details.Path == "" {
			m.status = "Could not inspect: " + msg.err.Error()
			return m, nil
		}
		m.inspected = msg
		m.overlay = overlayInspect
		m.status = ""
		return m, nil

	case actionMsg:
		switch {
		case errors.Is(msg.err, fs.ErrNotExist):
			m.status = "File not accessible or no longer exists."
		case msg.err != nil:
			m.status = "Could not open: " + msg.err.Error()
		default:
			m.status = msg.status
		}
		return m, nil

	case removedMsg:
		m.dropEntry(msg.path, "No longer on disk: ")
		if m.watch == nil {
			return m, nil
		}
		return m, m.watch.next()
	}

	return m, nil
}

// beginScan starts a scan of root unless one is already running.
func (m Model) beginScan(root string, maxResults int) (tea.Model, tea.Cmd) {
	if m.running {
		m.status = "Already scanning."
		return m, nil
	}
	if root == "" {
		m.status = "Pick a scan root first."
		return m, nil
	}
	root, err := config.ExpandPath(root)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	cfg := m.cfg.Engine(root)
	cfg.MaxResults = maxResults
	m.picker.maxResults.SetValue(fmt.Sprint(maxResults))

	m.gen++
	m.handle = m.opts.Engine.Start(m.ctx, cfg)
	m.running = true
	m.root = root
	m.snap = engine.Snapshot{CurrentDir: "(starting...)"}
	m.hasSnap = false
	m.outcome = ""
	m.startedAt = time.Now()
	m.finishedAt = time.Time{}
	m.panes = [2]rankingPane{}
	m.screen = screenScan
	m.status = "Starting scan..."
	if m.watch != nil {
		m.watch.w.Reset(nil)
	}

	logger.Info("scan started", "root", root, "max_results", maxResults)
	return m, tea.Batch(waitForSnapshot(m.gen, m.handle), m.spinner.Tick)
}

func (m Model) finishScan(outcome engine.Outcome) (tea.Model, tea.Cmd) {
	m.running = false
	m.outcome = outcome
	m.finishedAt = time.Now()
	if outcome == engine.Stopped {
		m.status = "Scan stopped."
	} else {
		m.status = "Scan finished."
	}
	logger.Info("scan ended", "root", m.root, "outcome", string(outcome),
		"dirs", m.snap.ScannedDirs, "files", m.snap.ScannedFiles, "elapsed", m.finishedAt.Sub(m.startedAt))

	return m, m.startWatch()
}

// startWatch tracks the displayed entries so removals show up without a
// rescan. The listener is armed once, on first use.
func (m *Model) startWatch() tea.Cmd {
	if m.opts.NoWatch {
		return nil
	}
	var cmd tea.Cmd
	if m.watch == nil {
		lw, err := startLiveWatch(m.ctx)
		if err != nil {
			logger.Warn("live watch unavailable", "err", err)
			return nil
		}
		m.watch = lw
		cmd = lw.next()
	}
	m.watch.w.Reset(entryPaths(m.snap.TopFiles, m.snap.TopDirs))
	return cmd
}

func entryPaths(lists ...[]types.Entry) []string {
	var out []string
	for _, l := range lists {
		for _, e := range l {
			out = append(out, e.Path)
		}
	}
	return out
}

// refreshPanes applies the display filter to the local snapshot copy.
func (m *Model) refreshPanes() {
	view := m.filter.Snapshot(m.snap)
	m.panes[paneDirs].setEntries(view.TopDirs)
	m.panes[paneFiles].setEntries(view.TopFiles)
}

// dropEntry removes path from the local snapshot copy only.
func (m *Model) dropEntry(path, statusPrefix string) {
	var inFiles, inDirs bool
	m.snap.TopFiles, inFiles = removeEntry(m.snap.TopFiles, path)
	m.snap.TopDirs, inDirs = removeEntry(m.snap.TopDirs, path)
	if inFiles || inDirs {
		m.refreshPanes()
		if statusPrefix != "" {
			m.status = statusPrefix + path
		}
	}
}

func (m Model) handleTrashed(msg trashedMsg) Model {
	if msg.err != nil {
		logger.Warn("trash failed", "path", msg.entry.Path, "err", msg.err)
		m.status = "Could not move to trash: " + msg.err.Error()
		return m
	}
	logger.Info("moved to trash", "path", msg.entry.Path, "method", string(msg.result.Method))
	m.dropEntry(msg.entry.Path, "")
	m.status = fmt.Sprintf("Moved to trash: %s", msg.entry.Path)
	if msg.histErr != nil {
		logger.Warn("history not recorded", "path", msg.entry.Path, "err", msg.histErr)
		m.status += " (history not saved)"
	}
	return m
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.shutdown()
	return m, tea.Quit
}

// shutdown stops the scan and the live watch. It is safe to call twice.
func (m Model) shutdown() {
	if m.handle != nil {
		m.handle.Stop()
	}
	if m.watch != nil {
		_ = m.watch.w.Close()
	}
	m.cancel()
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.overlay {
	case overlayConfirm:
		return m.handleConfirmKey(msg)
	case overlayFilter:
		return m.handleFilterKey(msg)
	case overlayInspect:
		m.overlay = overlayNone
		return m, nil
	}

	if m.screen == screenPicker {
		return m.handlePickerKey(msg)
	}
	return m.handleScanKey(msg)
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.running || m.hasSnap {
			m.screen = screenScan
		}
		return m, nil
	case "tab":
		m.picker.setFocus((m.picker.focus + 1) % 3)
		return m, nil
	case "shift+tab":
		m.picker.setFocus((m.picker.focus + 2) % 3)
		return m, nil
	case "enter":
		return m.beginScan(m.picker.root(), config.ClampMaxResults(m.picker.maxResults.Value()))
	case "q":
		if m.picker.focus == focusList {
			return m.quit()
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.update(msg)
	return m, cmd
}

func (m Model) handleScanKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Start):
		return m.beginScan(m.picker.root(), config.ClampMaxResults(m.picker.maxResults.Value()))

	case key.Matches(msg, m.keys.Stop):
		if !m.running {
			m.status = "No scan running."
			return m, nil
		}
		m.handle.Stop()
		m.status = "Stopping scan..."

	case key.Matches(msg, m.keys.Switch):
		m.active = 1 - m.active

	case key.Matches(msg, m.keys.Up):
		m.panes[m.active].move(-1)

	case key.Matches(msg, m.keys.Down):
		m.panes[m.active].move(1)

	case key.Matches(msg, m.keys.Open):
		e, ok := m.panes[m.active].selected()
		if !ok {
			return m, nil
		}
		if !exists(e.Path) {
			m.status = "File not accessible or no longer exists."
			return m, nil
		}
		label := "Opened file: "
		if m.active == paneDirs {
			label = "Opened folder: "
		}
		return m, runAction(m.opts.Open, e.Path, label)

	case key.Matches(msg, m.keys.Reveal):
		e, ok := m.panes[m.active].selected()
		if !ok {
			return m, nil
		}
		if m.active != paneFiles || !isRegularFile(e.Path) {
			m.status = "File not accessible or no longer exists."
			return m, nil
		}
		return m, runAction(m.opts.Reveal, e.Path, "Revealed in folder: ")

	case key.Matches(msg, m.keys.Trash):
		e, ok := m.panes[m.active].selected()
		if !ok {
			return m, nil
		}
		if m.active != paneFiles || !isRegularFile(e.Path) {
			m.status = "That item is not a file."
			return m, nil
		}
		if m.opts.Confirm {
			m.pending = e
			m.overlay = overlayConfirm
			return m, nil
		}
		return m, trashFile(m.ctx, m.opts.Trash, m.opts.History, e)

	case key.Matches(msg, m.keys.OpenTrash):
		return m, openTrash(m.opts.OpenTrash)

	case key.Matches(msg, m.keys.Inspect):
		e, ok := m.panes[m.active].selected()
		if !ok {
			return m, nil
		}
		m.status = "Inspecting " + e.Path + "..."
		return m, inspectPath(m.ctx, e.Path)

	case key.Matches(msg, m.keys.Filter):
		m.overlay = overlayFilter
		m.filterInput.SetValue(m.filter.String())
		m.filterInput.CursorEnd()
		return m, m.filterInput.Focus()

	case key.Matches(msg, m.keys.Roots):
		m.screen = screenPicker
		m.picker.setFocus(focusList)

	case key.Matches(msg, m.keys.Logs):
		m.showLog = !m.showLog
	}

	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.overlay = overlayNone
		return m, trashFile(m.ctx, m.opts.Trash, m.opts.History, m.pending)
	case "n", "N", "esc", "q":
		m.overlay = overlayNone
		m.status = "Trash cancelled."
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.overlay = overlayNone
		m.filterInput.Blur()
		return m, nil
	case "enter":
		f, err := filter.Parse(m.filterInput.Value())
		if err != nil {
			m.status = "Invalid filter: " + err.Error()
			return m, nil
		}
		m.filter = f
		m.overlay = overlayNone
		m.filterInput.Blur()
		m.refreshPanes()
		if f.Empty() {
			m.status = "Filter cleared."
		} else {
			m.status = "Filter: " + f.String()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

// estimateProgress maps directories scanned onto a curve that approaches
// 95% since the total is never known up front.
func estimateProgress(scannedDirs int64) float64 {
	p := 95 * (1 - math.Exp(-float64(scannedDirs)/2500))
	return math.Max(0, math.Min(95, p))
}

// percent is the bar value: estimated while running, 100 once finished.
func (m Model) percent() float64 {
	if m.outcome != "" {
		return 100
	}
	if !m.running {
		return 0
	}
	return estimateProgress(m.snap.ScannedDirs)
}

func (m Model) elapsed() time.Duration {
	switch {
	case m.startedAt.IsZero():
		return 0
	case !m.finishedAt.IsZero():
		return m.finishedAt.Sub(m.startedAt)
	default:
		return time.Since(m.startedAt)
	}
}

// formatDuration formats a duration as M:SS.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", d/time.Minute, (d%time.Minute)/time.Second)
}

// View renders the current screen.
func (m Model) View() string {
	var body string
	switch m.overlay {
	case overlayConfirm:
		body = m.renderConfirm()
	case overlayFilter:
		body = m.renderFilter()
	case overlayInspect:
		body = m.renderInspect()
	}
	if body != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}

	if m.screen == screenPicker {
		return outerBoxStyle.Width(m.width - 2).Render(m.header() + "\n\n" + m.picker.view(m.width-4))
	}
	return m.renderScan()
}

func (m Model) header() string {
	h := titleStyle.Render("heft")
	if m.root != "" {
		h += mutedTextStyle.Render("  " + m.root)
	}
	if !m.filter.Empty() {
		h += warningTextStyle.Render("  filter: " + m.filter.String())
	}
	if m.watch != nil && !m.running && m.outcome != "" {
		h += successTextStyle.Render("  ● LIVE")
	}
	return h
}

func (m Model) renderScan() string {
	width := max(m.width-4, 40)
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(renderDivider(width))
	b.WriteString("\n")

	pct := m.percent()
	state := "Not started"
	switch {
	case m.running:
		state = m.spinner.View() + " Scanning..."
	case m.outcome != "":
		state = "Done"
	}
	m.bar.FullColor = string(progressColor(pct))
	fmt.Fprintf(&b, "%s %3.0f%%  %s\n", m.bar.ViewAs(pct/100), pct, state)

	fmt.Fprintf(&b, "%s\n", mutedTextStyle.Render("Current dir: "+truncatePath(m.snap.CurrentDir, width-13)))
	fmt.Fprintf(&b, "Dirs scanned: %s | Files scanned: %s   %s\n",
		humanize.Comma(m.snap.ScannedDirs), humanize.Comma(m.snap.ScannedFiles),
		mutedTextStyle.Render(formatDuration(m.elapsed())))

	used := strings.Count(b.String(), "\n") + 6
	if m.showLog {
		used += 10
	}
	paneWidth := width
	rows := max((m.height-used)/2-3, 3)
	if width >= 140 {
		paneWidth = width / 2
		rows = max(m.height-used-3, 3)
	}

	dirs := m.panes[paneDirs].view(paneDirs.String(), paneWidth, rows, m.active == paneDirs)
	files := m.panes[paneFiles].view(paneFiles.String(), paneWidth, rows, m.active == paneFiles)
	b.WriteString(joinPanes(width, dirs, files))
	b.WriteString("\n")

	if m.showLog {
		b.WriteString(renderLogPane(m.opts.Buffer, width, 8))
		b.WriteString("\n")
	}

	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

func (m Model) renderConfirm() string {
	var b strings.Builder
	b.WriteString(dialogTitleStyle.Render("Move to trash"))
	b.WriteString("\n\n")
	b.WriteString(truncatePath(m.pending.Path, 54))
	b.WriteString("\n")
	b.WriteString(mutedTextStyle.Render(types.FormatSize(m.pending.Size)))
	b.WriteString("\n\n")
	b.WriteString(keyStyle.Render("[y]") + " move to trash   " + keyStyle.Render("[n]") + " cancel")
	return dialogBoxStyle.Render(b.String())
}

func (m Model) renderFilter() string {
	var b strings.Builder
	b.WriteString(dialogTitleStyle.Render("Filter rankings"))
	b.WriteString("\n\n")
	b.WriteString(m.filterInput.View())
	b.WriteString("\n\n")
	b.WriteString(mutedTextStyle.Render("glob includes, -glob excludes, >=SIZE floor; empty clears"))
	return infoBoxStyle.Render(b.String())
}

func (m Model) renderInspect() string {
	d := m.inspected.details
	var b strings.Builder
	b.WriteString(titleStyle.Render(truncatePath(d.Path, 54)))
	b.WriteString("\n\n")

	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", mutedTextStyle.Render(fmt.Sprintf("%-10s", label)), value)
	}
	if d.Kind != "" {
		row("Kind", d.Kind)
	}
	if d.MIME != "" {
		row("Type", d.MIME)
	}
	row("Size", fmt.Sprintf("%s (%s bytes)", types.FormatSize(d.Size), humanize.Comma(d.Size)))
	if t := m.inspected.tree; t != nil {
		row("Tree size", fmt.Sprintf("%s in %s files, %s dirs",
			types.FormatSize(t.Bytes), humanize.Comma(t.Files), humanize.Comma(t.Dirs)))
	}
	row("Modified", d.ModTime.Format("2006-01-02 15:04")+" ("+humanize.Time(d.ModTime)+")")
	row("Mode", d.Mode.String())
	if m.inspected.err != nil {
		b.WriteString(errorTextStyle.Render(m.inspected.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedTextStyle.Render("press any key"))
	return infoBoxStyle.Render(b.String())
}

// Run starts the TUI and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.shutdown()
		if m.handle != nil {
			m.handle.Wait()
		}
	}
	return err
}
