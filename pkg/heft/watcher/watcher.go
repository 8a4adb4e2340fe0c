// Package watcher notices when entries shown in the rankings disappear
// from disk, so stale rows can be dropped without a rescan.
package watcher

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/jamesainslie/heft/pkg/heft/logging"
)

var logger = logging.Get("watcher")

// Watcher watches the parent directories of tracked paths. Watches are not
// recursive; only the tracked paths themselves are reported.
type Watcher struct {
	fsw *fsnotify.Watcher

	mu      sync.Mutex
	tracked map[string]struct{}
	dirs    map[string]int
	closed  bool
}

// New creates a Watcher with nothing tracked.
func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:     fsw,
		tracked: make(map[string]struct{}),
		dirs:    make(map[string]int),
	}, nil
}

// Track starts reporting removal of each path. Paths whose directory
// cannot be watched are ignored.
func (w *Watcher) Track(paths ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	for _, p := range paths {
		p = filepath.Clean(p)
		if _, ok := w.tracked[p]; ok {
			continue
		}
		dir := filepath.Dir(p)
		if w.dirs[dir] == 0 {
			if err := w.fsw.Add(dir); err != nil {
				logger.Debug("cannot watch directory", "dir", dir, "err", err)
				continue
			}
		}
		w.dirs[dir]++
		w.tracked[p] = struct{}{}
	}
}

// Reset replaces the tracked set with paths.
func (w *Watcher) Reset(paths []string) {
	w.mu.Lock()
	for p := range w.tracked {
		w.untrackLocked(p)
	}
	w.mu.Unlock()

	w.Track(paths...)
}

// Tracked reports how many paths are tracked.
func (w *Watcher) Tracked() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.tracked)
}

func (w *Watcher) untrackLocked(p string) {
	if _, ok := w.tracked[p]; !ok {
		return
	}
	delete(w.tracked, p)

	dir := filepath.Dir(p)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if !w.closed {
			_ = w.fsw.Remove(dir)
		}
	}
}

// Run delivers removals to onRemoved until ctx is done or the watcher is
// closed. A path is reported once and then forgotten.
func (w *Watcher) Run(ctx context.Context, onRemoved func(path string)) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			p := filepath.Clean(event.Name)

			w.mu.Lock()
			_, hit := w.tracked[p]
			if hit {
				w.untrackLocked(p)
			}
			w.mu.Unlock()

			if hit && onRemoved != nil {
				logger.Debug("tracked path removed", "path", p)
				onRemoved(p)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

// Close releases every watch. Run returns shortly after.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.tracked = make(map[string]struct{})
	w.dirs = make(map[string]int)
	return w.fsw.Close()
}
