package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/heft/pkg/heft/engine"
	"github.com/jamesainslie/heft/pkg/heft/types"
)

var sample = []types.Entry{
	{Path: "/home/me/Videos/trip.mp4", Size: 900},
	{Path: "/home/me/.cache/pip/wheel.whl", Size: 500},
	{Path: "/home/me/Downloads/ubuntu.iso", Size: 400},
	{Path: "/home/me/notes.txt", Size: 3},
}

func paths(entries []types.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func TestFilter_Empty(t *testing.T) {
	f, err := New()
	require.NoError(t, err)
	assert.True(t, f.Empty())
	assert.Equal(t, sample, f.Apply(sample))

	var nilFilter *Filter
	assert.True(t, nilFilter.Match(sample[0]))
}

func TestFilter_IncludeBaseName(t *testing.T) {
	f, err := New(WithInclude("*.iso", "*.mp4"))
	require.NoError(t, err)

	assert.Equal(t, []string{"/home/me/Videos/trip.mp4", "/home/me/Downloads/ubuntu.iso"}, paths(f.Apply(sample)))
}

func TestFilter_ExcludeFullPath(t *testing.T) {
	f, err := New(WithExclude("**/.cache/**"))
	require.NoError(t, err)

	got := paths(f.Apply(sample))
	assert.NotContains(t, got, "/home/me/.cache/pip/wheel.whl")
	assert.Len(t, got, 3)
}

func TestFilter_ExcludeWinsOverInclude(t *testing.T) {
	f, err := New(WithInclude("*"), WithExclude("*.txt"))
	require.NoError(t, err)
	assert.False(t, f.Match(types.Entry{Path: "/x/readme.txt"}))
	assert.True(t, f.Match(types.Entry{Path: "/x/readme.md"}))
}

func TestFilter_MinSize(t *testing.T) {
	f, err := New(WithMinSize(450))
	require.NoError(t, err)
	assert.Equal(t, []string{"/home/me/Videos/trip.mp4", "/home/me/.cache/pip/wheel.whl"}, paths(f.Apply(sample)))
}

func TestFilter_InvalidPattern(t *testing.T) {
	_, err := New(WithInclude("[unclosed"))
	require.ErrorIs(t, err, ErrInvalidPattern)
}

func TestFilter_ApplyDoesNotMutate(t *testing.T) {
	in := append([]types.Entry(nil), sample...)
	f, err := New(WithInclude("*.iso"))
	require.NoError(t, err)

	_ = f.Apply(in)
	assert.Equal(t, sample, in)
}

func TestFilter_Snapshot(t *testing.T) {
	f, err := New(WithExclude("Downloads"))
	require.NoError(t, err)

	snap := engine.Snapshot{
		CurrentDir:   "/home/me",
		ScannedDirs:  4,
		ScannedFiles: 9,
		TopDirs:      []types.Entry{{Path: "/home/me/Downloads", Size: 400}, {Path: "/home/me", Size: 3}},
		TopFiles:     sample,
	}

	got := f.Snapshot(snap)
	assert.Equal(t, int64(4), got.ScannedDirs)
	assert.Equal(t, int64(9), got.ScannedFiles)
	assert.Equal(t, []string{"/home/me"}, paths(got.TopDirs))
	assert.Len(t, got.TopFiles, 4)
	assert.Len(t, snap.TopDirs, 2)
}

func TestParse(t *testing.T) {
	f, err := Parse("*.iso *.mp4 -trip* >=100")
	require.NoError(t, err)

	assert.Equal(t, []string{"/home/me/Downloads/ubuntu.iso"}, paths(f.Apply(sample)))
	assert.Equal(t, "+*.iso +*.mp4 -trip* >=100 B", f.String())

	_, err = Parse(">=lots")
	require.ErrorIs(t, err, types.ErrInvalidSize)

	empty, err := Parse("   ")
	require.NoError(t, err)
	assert.True(t, empty.Empty())
	assert.Equal(t, "", empty.String())
}
