package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T) (*Watcher, <-chan string) {
	t.Helper()
	w, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	removed := make(chan string, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, func(p string) { removed <- p })
	}()

	t.Cleanup(func() {
		cancel()
		_ = w.Close()
		<-done
	})
	return w, removed
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func expectRemoval(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		assert.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatalf("no removal reported for %s", want)
	}
}

func TestWatcher_ReportsTrackedRemoval(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "big.iso")
	other := filepath.Join(dir, "other.txt")
	touch(t, tracked)
	touch(t, other)

	w, removed := startWatcher(t)
	w.Track(tracked)
	assert.Equal(t, 1, w.Tracked())

	require.NoError(t, os.Remove(other))
	require.NoError(t, os.Remove(tracked))

	expectRemoval(t, removed, tracked)
	assert.Zero(t, w.Tracked())
}

func TestWatcher_ReportsRename(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "movie.mkv")
	touch(t, tracked)

	w, removed := startWatcher(t)
	w.Track(tracked)

	require.NoError(t, os.Rename(tracked, filepath.Join(dir, "moved.mkv")))
	expectRemoval(t, removed, tracked)
}

func TestWatcher_ResetReplacesTracked(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	touch(t, a)
	touch(t, b)

	w, removed := startWatcher(t)
	w.Track(a)
	w.Reset([]string{b})
	assert.Equal(t, 1, w.Tracked())

	require.NoError(t, os.Remove(a))
	require.NoError(t, os.Remove(b))
	expectRemoval(t, removed, b)
}

func TestWatcher_TrackMissingDirIsIgnored(t *testing.T) {
	w, _ := startWatcher(t)
	w.Track(filepath.Join(t.TempDir(), "nope", "file"))
	assert.Zero(t, w.Tracked())
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	w.Track("/tmp/x")
	assert.Zero(t, w.Tracked())
}
