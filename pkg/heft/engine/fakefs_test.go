package engine

import (
	"errors"
	"io/fs"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/heft/pkg/heft/types"
)

// fakeFS is an in-memory FileSystem using slash paths.
type fakeFS struct {
	entries   map[string][]fs.DirEntry
	readErr   map[string]error
	links     map[string]string
	unresolve map[string]bool
	gate      chan struct{}
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		entries:   make(map[string][]fs.DirEntry),
		readErr:   make(map[string]error),
		links:     make(map[string]string),
		unresolve: make(map[string]bool),
	}
}

func (f *fakeFS) dir(name string, children ...fs.DirEntry) {
	f.entries[name] = children
}

func (f *fakeFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if f.gate != nil {
		<-f.gate
	}
	entries, ok := f.entries[name]
	if err := f.readErr[name]; err != nil {
		return entries, err
	}
	if !ok {
		return nil, fs.ErrNotExist
	}
	return entries, nil
}

func (f *fakeFS) Stat(name string) (fs.FileInfo, error) {
	if target, ok := f.links[name]; ok {
		name = target
	}
	if _, ok := f.entries[name]; ok {
		return fakeInfo{name: path.Base(name), mode: fs.ModeDir}, nil
	}
	return nil, fs.ErrNotExist
}

func (f *fakeFS) Canonical(name string) (string, error) {
	if f.unresolve[name] {
		return "", errors.New("cannot resolve")
	}
	if target, ok := f.links[name]; ok {
		return target, nil
	}
	return name, nil
}

type fakeInfo struct {
	name string
	size int64
	mode fs.FileMode
}

func (i fakeInfo) Name() string       { return i.name }
func (i fakeInfo) Size() int64        { return i.size }
func (i fakeInfo) Mode() fs.FileMode  { return i.mode }
func (i fakeInfo) ModTime() time.Time { return time.Time{} }
func (i fakeInfo) IsDir() bool        { return i.mode.IsDir() }
func (i fakeInfo) Sys() any           { return nil }

type fakeEntry struct {
	info    fakeInfo
	infoErr error
}

func (e fakeEntry) Name() string               { return e.info.name }
func (e fakeEntry) IsDir() bool                { return e.info.IsDir() }
func (e fakeEntry) Type() fs.FileMode          { return e.info.mode.Type() }
func (e fakeEntry) Info() (fs.FileInfo, error) { return e.info, e.infoErr }

func fileEntry(name string, size int64) fs.DirEntry {
	return fakeEntry{info: fakeInfo{name: name, size: size}}
}

func dirEntry(name string) fs.DirEntry {
	return fakeEntry{info: fakeInfo{name: name, mode: fs.ModeDir}}
}

func linkEntry(name string) fs.DirEntry {
	return fakeEntry{info: fakeInfo{name: name, mode: fs.ModeSymlink}}
}

func TestRun_PartialListingIsKept(t *testing.T) {
	fsys := newFakeFS()
	fsys.dir("/r", fileEntry("a", 3), fileEntry("b", 4))
	fsys.readErr["/r"] = errors.New("io error mid-listing")

	rec := runScan(t, New(WithFileSystem(fsys)), testConfig("/r", 5), NewSignal())

	assert.Equal(t, int64(2), rec.last().ScannedFiles)
	assert.Equal(t, []types.Entry{{Path: "/r", Size: 7}}, rec.last().TopDirs)
}

func TestRun_UnstatableEntriesAreSkipped(t *testing.T) {
	fsys := newFakeFS()
	fsys.dir("/r",
		fakeEntry{info: fakeInfo{name: "vanished", size: 9}, infoErr: fs.ErrNotExist},
		linkEntry("broken"),
		fileEntry("ok", 1),
		fakeEntry{info: fakeInfo{name: "fifo", mode: fs.ModeNamedPipe}},
	)

	rec := runScan(t, New(WithFileSystem(fsys)), testConfig("/r", 5), NewSignal())

	assert.Equal(t, int64(1), rec.last().ScannedFiles)
	assert.Equal(t, []types.Entry{{Path: "/r/ok", Size: 1}}, rec.last().TopFiles)
}

func TestRun_UnresolvablePathUsesRawKey(t *testing.T) {
	fsys := newFakeFS()
	fsys.dir("/r", dirEntry("x"))
	fsys.dir("/r/x", fileEntry("f", 2))
	fsys.unresolve["/r/x"] = true

	rec := runScan(t, New(WithFileSystem(fsys)), testConfig("/r", 5), NewSignal())

	assert.Equal(t, int64(2), rec.last().ScannedDirs)
	assert.Equal(t, int64(1), rec.last().ScannedFiles)
}

func TestRun_LinkedDirectoryDedupedByCanonicalPath(t *testing.T) {
	fsys := newFakeFS()
	fsys.dir("/r", dirEntry("docs"), linkEntry("shortcut"))
	fsys.dir("/r/docs", fileEntry("f", 5))
	fsys.links["/r/shortcut"] = "/r/docs"

	rec := runScan(t, New(WithFileSystem(fsys)), testConfig("/r", 5), NewSignal())

	assert.Equal(t, int64(2), rec.last().ScannedDirs)
	assert.Equal(t, []types.Entry{{Path: "/r/docs/f", Size: 5}}, rec.last().TopFiles)
}

func TestRun_FlatListingTopThree(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e"}
	sizes := []int64{10, 50, 5, 100, 20}

	permutations([]int64{0, 1, 2, 3, 4}, func(order []int64) {
		children := make([]fs.DirEntry, 0, len(order))
		for _, i := range order {
			children = append(children, fileEntry(names[i], sizes[i]))
		}
		fsys := newFakeFS()
		fsys.dir("/root", children...)

		final := runScan(t, New(WithFileSystem(fsys)), testConfig("/root", 3), NewSignal()).last()

		assert.Equal(t, []types.Entry{
			{Path: "/root/d", Size: 100},
			{Path: "/root/b", Size: 50},
			{Path: "/root/e", Size: 20},
		}, final.TopFiles, "order %v", order)
		assert.Equal(t, []types.Entry{{Path: "/root", Size: 185}}, final.TopDirs)
	})
}

func TestRun_NestedDirectoriesTopTwo(t *testing.T) {
	fsys := newFakeFS()
	fsys.dir("/root", dirEntry("A"), dirEntry("B"))
	fsys.dir("/root/A", fileEntry("a", 300))
	fsys.dir("/root/B", fileEntry("b", 10))

	final := runScan(t, New(WithFileSystem(fsys)), testConfig("/root", 2), NewSignal()).last()

	assert.Equal(t, []types.Entry{
		{Path: "/root/A", Size: 300},
		{Path: "/root/B", Size: 10},
	}, final.TopDirs)
	assert.Equal(t, int64(3), final.ScannedDirs)
}

func TestRun_BreadthFirstOrder(t *testing.T) {
	fsys := newFakeFS()
	fsys.dir("/r", dirEntry("a"), dirEntry("b"))
	fsys.dir("/r/a", dirEntry("deep"))
	fsys.dir("/r/b")
	fsys.dir("/r/a/deep")

	var seen []string
	cfg := Config{Root: "/r", MaxResults: 5, UpdateEveryDirs: 1}
	New(WithFileSystem(fsys)).Run(cfg, NewSignal(), func(s Snapshot) {
		if !s.Final() {
			seen = append(seen, s.CurrentDir)
		}
	}, nil)

	require.Equal(t, []string{"/r", "/r/a", "/r/b", "/r/a/deep"}, seen)
}

func TestRun_StopMidDirectory(t *testing.T) {
	fsys := newFakeFS()
	children := make([]fs.DirEntry, 0, 100)
	for i := range 100 {
		children = append(children, fileEntry(string(rune('A'+i%26))+string(rune('a'+i/26)), 1))
	}
	fsys.dir("/r", children...)

	stop := NewSignal()
	counting := &stopAfterReads{FileSystem: fsys, stop: stop}
	rec := runScan(t, New(WithFileSystem(counting)), testConfig("/r", 5), stop)

	assert.Equal(t, []Outcome{Stopped}, rec.outcomes)
	assert.Zero(t, rec.last().ScannedFiles)
	assert.Equal(t, int64(1), rec.last().ScannedDirs)
}

// stopAfterReads raises stop as soon as a directory has been listed.
type stopAfterReads struct {
	FileSystem
	stop *Signal
}

func (s *stopAfterReads) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := s.FileSystem.ReadDir(name)
	s.stop.Raise()
	return entries, err
}
