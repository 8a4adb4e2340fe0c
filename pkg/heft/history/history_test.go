package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// stepClock returns a clock advancing one minute per call.
func stepClock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		now := cur
		cur = cur.Add(time.Minute)
		return now
	}
}

func TestRecordAndGet(t *testing.T) {
	s := memStore(t)

	rec, err := s.Record("/data/big.iso", 4096, "gio")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.Time.IsZero())

	got, err := s.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Path, got.Path)
	assert.Equal(t, rec.Size, got.Size)
	assert.Equal(t, "gio", got.Method)
	assert.True(t, rec.Time.Equal(got.Time))
}

func TestGetUnknown(t *testing.T) {
	_, err := memStore(t).Get("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := memStore(t)
	s.now = stepClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	for _, p := range []string{"/a", "/b", "/c"} {
		_, err := s.Record(p, 1, "freedesktop")
		require.NoError(t, err)
	}

	all, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"/c", "/b", "/a"}, []string{all[0].Path, all[1].Path, all[2].Path})

	two, err := s.List(2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
	assert.Equal(t, "/c", two[0].Path)
}

func TestListEmpty(t *testing.T) {
	records, err := memStore(t).List(10)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestTotals(t *testing.T) {
	s := memStore(t)
	_, err := s.Record("/a", 100, "gio")
	require.NoError(t, err)
	_, err = s.Record("/b", 23, "gio")
	require.NoError(t, err)

	n, bytes, err := s.Totals()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, int64(123), bytes)
}

func TestPrune(t *testing.T) {
	s := memStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	old := Record{ID: "old", Time: base.AddDate(0, 0, -40), Path: "/old", Size: 1}
	recent := Record{ID: "recent", Time: base.AddDate(0, 0, -2), Path: "/recent", Size: 1}
	require.NoError(t, s.Add(old))
	require.NoError(t, s.Add(recent))

	s.now = func() time.Time { return base }
	n, err := s.PruneDays(30)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Get("old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get("recent")
	assert.NoError(t, err)

	n, err = s.PruneDays(0)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	rec, err := s.Record("/persisted", 9, "trash-put")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "/persisted", got.Path)
}
