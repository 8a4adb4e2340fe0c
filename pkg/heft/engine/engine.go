// Package engine walks a directory tree breadth-first on a single goroutine
// and reports the largest files and the directories holding the most bytes
// in their direct children. Progress is delivered as periodic snapshots;
// the walk can be stopped cooperatively at any point.
//
// Directory links are followed. A set of canonical paths keeps the walk
// from entering the same directory twice, so link cycles terminate.
// Unreadable directories and unstat-able entries are skipped silently.
package engine

import (
	"io/fs"
	"path/filepath"

	"github.com/jamesainslie/heft/pkg/heft/logging"
)

var logger = logging.Get("engine")

// Engine runs scans. The zero value is not usable; call New.
type Engine struct {
	fsys FileSystem
}

// Option configures an Engine.
type Option func(*Engine)

// WithFileSystem replaces the operating system as the source of entries.
func WithFileSystem(fsys FileSystem) Option {
	return func(e *Engine) {
		e.fsys = fsys
	}
}

// New returns an engine reading the real filesystem unless told otherwise.
func New(opts ...Option) *Engine {
	e := &Engine{fsys: OSFileSystem{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run performs one scan on the calling goroutine. onUpdate receives a
// snapshot every cfg.UpdateEveryDirs processed directories and a last one
// whose CurrentDir is FinishedDir; onDone is then called once with the
// outcome. Either callback may be nil. Run never fails: problems with
// individual paths only shrink the result.
func (e *Engine) Run(cfg Config, stop *Signal, onUpdate UpdateFunc, onDone DoneFunc) {
	s := &scan{
		cfg:      cfg,
		fsys:     e.fsys,
		stop:     stop,
		onUpdate: onUpdate,
		queue:    []string{cfg.Root},
		visited:  make(map[string]struct{}),
		dirs:     NewDirTable(),
		files:    NewRanker(cfg.MaxResults),
	}

	logger.Debug("scan started", "root", cfg.Root, "max_results", cfg.MaxResults, "update_every", cfg.UpdateEveryDirs)
	s.walk()
	s.emit(FinishedDir)

	outcome := Completed
	if stop.Raised() {
		outcome = Stopped
	}
	logger.Debug("scan finished",
		"root", cfg.Root,
		"outcome", outcome,
		"dirs", s.scannedDirs,
		"files", s.scannedFiles,
		"revisits", s.revisits,
		"unreadable", s.unreadable,
		"unresolved", s.unresolved,
		"skipped", s.skipped,
	)

	if onDone != nil {
		onDone(outcome)
	}
}

// Run performs a scan with a default Engine.
func Run(cfg Config, stop *Signal, onUpdate UpdateFunc, onDone DoneFunc) {
	New().Run(cfg, stop, onUpdate, onDone)
}

// scan holds the state of one traversal. It is created by Run and dropped
// when Run returns.
type scan struct {
	cfg      Config
	fsys     FileSystem
	stop     *Signal
	onUpdate UpdateFunc

	queue   []string
	visited map[string]struct{}
	dirs    *DirTable
	files   *Ranker

	scannedDirs  int64
	scannedFiles int64
	sinceUpdate  int

	revisits   int
	unreadable int
	unresolved int
	skipped    int
}

func (s *scan) walk() {
	for len(s.queue) > 0 {
		if s.stop.Raised() {
			return
		}

		dir := s.queue[0]
		s.queue[0] = ""
		s.queue = s.queue[1:]

		key := s.canonical(dir)
		if _, seen := s.visited[key]; seen {
			s.revisits++
			continue
		}
		s.visited[key] = struct{}{}

		s.scannedDirs++
		s.dirs.Touch(dir)
		s.list(dir)

		s.sinceUpdate++
		if s.sinceUpdate >= s.cfg.UpdateEveryDirs {
			s.sinceUpdate = 0
			s.emit(dir)
		}
	}
}

// canonical returns the resolved form of dir, or dir itself when it cannot
// be resolved.
func (s *scan) canonical(dir string) string {
	key, err := s.fsys.Canonical(dir)
	if err != nil {
		s.unresolved++
		return dir
	}
	return key
}

// list handles the direct children of dir: subdirectories are queued and
// regular files are counted.
func (s *scan) list(dir string) {
	entries, err := s.fsys.ReadDir(dir)
	if err != nil {
		s.unreadable++
		logger.Debug("cannot list directory", "dir", dir, "err", err)
	}

	for _, entry := range entries {
		if s.stop.Raised() {
			return
		}

		path := filepath.Join(dir, entry.Name())

		isDir, ok := s.isDir(path, entry)
		if !ok {
			s.skipped++
			continue
		}
		if isDir {
			s.queue = append(s.queue, path)
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			s.skipped++
			continue
		}

		size := info.Size()
		s.scannedFiles++
		s.dirs.Add(dir, size)
		s.files.Offer(path, size)
	}
}

// isDir classifies an entry, following links. Windows junctions surface as
// irregular entries and are followed the same way.
func (s *scan) isDir(path string, entry fs.DirEntry) (isDir, ok bool) {
	t := entry.Type()
	switch {
	case t.IsDir():
		return true, true
	case t&(fs.ModeSymlink|fs.ModeIrregular) != 0:
		info, err := s.fsys.Stat(path)
		if err != nil {
			return false, false
		}
		return info.IsDir(), true
	default:
		return false, true
	}
}

func (s *scan) emit(current string) {
	if s.onUpdate == nil {
		return
	}
	s.onUpdate(Snapshot{
		CurrentDir:   current,
		ScannedDirs:  s.scannedDirs,
		ScannedFiles: s.scannedFiles,
		TopDirs:      s.dirs.Top(s.cfg.MaxResults),
		TopFiles:     s.files.Entries(),
	})
}
