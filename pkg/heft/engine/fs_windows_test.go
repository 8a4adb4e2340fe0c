//go:build windows

package engine

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func junction(t *testing.T, link, target string) {
	t.Helper()
	out, err := exec.Command("cmd", "/c", "mklink", "/J", link, target).CombinedOutput()
	if err != nil {
		t.Skipf("mklink /J unavailable: %v: %s", err, out)
	}
}

func TestRun_JunctionCycleTerminates(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	createFileOfSize(t, filepath.Join(sub, "f"), 7)
	junction(t, filepath.Join(sub, "loop"), root)

	rec := runScan(t, New(), testConfig(root, 10), NewSignal())
	final := rec.last()

	assert.Equal(t, []Outcome{Completed}, rec.outcomes)
	assert.Equal(t, int64(2), final.ScannedDirs)
	assert.Equal(t, int64(1), final.ScannedFiles)
}

func TestCanonical_ResolvesJunction(t *testing.T) {
	target := t.TempDir()
	link := filepath.Join(t.TempDir(), "j")
	junction(t, link, target)

	want, err := OSFileSystem{}.Canonical(target)
	require.NoError(t, err)
	got, err := OSFileSystem{}.Canonical(link)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = os.Stat(got)
	assert.NoError(t, err)
}

func TestStripVerbatim(t *testing.T) {
	assert.Equal(t, `C:\Users\me`, stripVerbatim(`\\?\C:\Users\me`))
	assert.Equal(t, `\\server\share\x`, stripVerbatim(`\\?\UNC\server\share\x`))
	assert.Equal(t, `C:\plain`, stripVerbatim(`C:\plain`))
}
