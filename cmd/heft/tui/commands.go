package tui

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jamesainslie/heft/pkg/heft/engine"
	"github.com/jamesainslie/heft/pkg/heft/history"
	"github.com/jamesainslie/heft/pkg/heft/inspect"
	"github.com/jamesainslie/heft/pkg/heft/trash"
	"github.com/jamesainslie/heft/pkg/heft/types"
	"github.com/jamesainslie/heft/pkg/heft/watcher"
)

// snapshotMsg carries one engine snapshot. gen identifies the scan so late
// messages from an earlier scan can be dropped.
type snapshotMsg struct {
	gen  int
	snap engine.Snapshot
}

// scanDoneMsg arrives after the final snapshot of a scan.
type scanDoneMsg struct {
	gen     int
	outcome engine.Outcome
}

// trashedMsg reports the result of moving a file to the trash.
type trashedMsg struct {
	entry   types.Entry
	result  trash.Result
	err     error
	histErr error
}

// inspectedMsg carries details for the inspect overlay.
type inspectedMsg struct {
	details inspect.Details
	tree    *inspect.Tree
	err     error
}

// actionMsg reports an open, a reveal or the trash being shown.
type actionMsg struct {
	status string
	err    error
}

// removedMsg reports a displayed path that disappeared from disk.
type removedMsg struct {
	path string
}

// waitForSnapshot turns the next value on the handle's update stream into
// a message. The closed stream becomes scanDoneMsg.
func waitForSnapshot(gen int, h *engine.Handle) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-h.Updates()
		if !ok {
			return scanDoneMsg{gen: gen, outcome: h.Wait()}
		}
		return snapshotMsg{gen: gen, snap: s}
	}
}

// trashFile moves e to the trash and records the move when a history
// store is available.
func trashFile(ctx context.Context, mover TrashFunc, store *history.Store, e types.Entry) tea.Cmd {
	return func() tea.Msg {
		res, err := mover(ctx, e.Path)
		msg := trashedMsg{entry: e, result: res, err: err}
		if err == nil && store != nil {
			size := res.Size
			if size == 0 {
				size = e.Size
			}
			_, msg.histErr = store.Record(res.Path, size, string(res.Method))
		}
		return msg
	}
}

// inspectPath gathers details for path, including the recursive size of
// directories.
func inspectPath(ctx context.Context, path string) tea.Cmd {
	return func() tea.Msg {
		d, err := inspect.File(path)
		if err != nil {
			return inspectedMsg{err: err}
		}
		msg := inspectedMsg{details: d}
		if d.Mode.IsDir() {
			tree, err := inspect.TreeSize(ctx, path)
			if err != nil && !errors.Is(err, context.Canceled) {
				msg.err = err
			}
			msg.tree = &tree
		}
		return msg
	}
}

// runAction performs an open or reveal and reports status on success.
func runAction(fn func(string) error, path, status string) tea.Cmd {
	return func() tea.Msg {
		if err := fn(path); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: status + path}
	}
}

func openTrash(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "Opened trash."}
	}
}

// liveWatch feeds removals of tracked paths into ch until ctx ends.
type liveWatch struct {
	w  *watcher.Watcher
	ch chan string
}

func startLiveWatch(ctx context.Context) (*liveWatch, error) {
	w, err := watcher.New()
	if err != nil {
		return nil, err
	}
	lw := &liveWatch{w: w, ch: make(chan string, 16)}
	go w.Run(ctx, func(p string) {
		select {
		case lw.ch <- p:
		case <-ctx.Done():
		}
	})
	return lw, nil
}

func (lw *liveWatch) next() tea.Cmd {
	return func() tea.Msg {
		p, ok := <-lw.ch
		if !ok {
			return nil
		}
		return removedMsg{path: p}
	}
}

// exists reports whether path can be stat'ed.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// isRegularFile reports whether path is a regular file, following links.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
