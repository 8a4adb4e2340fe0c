package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rolledFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		if e.Name() != "heft.log" && strings.HasPrefix(e.Name(), "heft.") {
			out = append(out, e.Name())
		}
	}
	return out
}

func TestRotatingWriter_RotatesBySize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heft.log")

	w, err := NewRotatingWriter(path, RotationConfig{MaxSize: 64})
	require.NoError(t, err)
	defer w.Close()

	line := []byte(strings.Repeat("x", 40) + "\n")
	for range 3 {
		_, err := w.Write(line)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	assert.NotEmpty(t, rolledFiles(t, dir))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(64))
}

func TestRotatingWriter_MaxBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heft.log")

	w, err := NewRotatingWriter(path, RotationConfig{MaxSize: 10, MaxBackups: 2})
	require.NoError(t, err)
	defer w.Close()

	for range 6 {
		_, err := w.Write([]byte("0123456789ab\n"))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	assert.LessOrEqual(t, len(rolledFiles(t, dir)), 2)
}

func TestRotatingWriter_PrunesOldFiles(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "heft.2020-01-01-000000.000.log")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))
	old := time.Now().Add(-90 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	w, err := NewRotatingWriter(filepath.Join(dir, "heft.log"), RotationConfig{MaxAge: 30})
	require.NoError(t, err)
	defer w.Close()

	assert.NoFileExists(t, stale)
}

func TestRotatingWriter_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "heft.log")
	w, err := NewRotatingWriter(path, RotationConfig{})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.FileExists(t, path)
}

func TestRotatingWriter_WriteAfterClose(t *testing.T) {
	w, err := NewRotatingWriter(filepath.Join(t.TempDir(), "heft.log"), RotationConfig{})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late"))
	assert.ErrorIs(t, err, os.ErrClosed)
}
