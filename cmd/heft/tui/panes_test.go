package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jamesainslie/heft/pkg/heft/logging"
	"github.com/jamesainslie/heft/pkg/heft/types"
)

func TestRankingPane_CursorBounds(t *testing.T) {
	var p rankingPane
	p.move(1)
	_, ok := p.selected()
	assert.False(t, ok)

	p.setEntries([]types.Entry{{Path: "/a", Size: 3}, {Path: "/b", Size: 2}, {Path: "/c", Size: 1}})
	p.move(5)
	e, ok := p.selected()
	assert.True(t, ok)
	assert.Equal(t, "/c", e.Path)

	p.setEntries([]types.Entry{{Path: "/a", Size: 3}})
	assert.Equal(t, 0, p.cursor)
}

func TestRankingPane_Scroll(t *testing.T) {
	var p rankingPane
	entries := make([]types.Entry, 10)
	for i := range entries {
		entries[i] = types.Entry{Path: "/f" + string(rune('0'+i)), Size: int64(10 - i)}
	}
	p.setEntries(entries)
	p.move(7)
	p.scrollTo(3)
	assert.Equal(t, 5, p.offset)

	p.move(-7)
	p.scrollTo(3)
	assert.Equal(t, 0, p.offset)
}

func TestFormatRow(t *testing.T) {
	row := formatRow(types.Entry{Path: "/data/movie.mkv", Size: 3 * types.GiB / 2}, 9, 80)
	assert.Equal(t, "  1.50 GB  |  /data/movie.mkv", row)

	row = formatRow(types.Entry{Path: "/x", Size: 12}, 4, 80)
	assert.Equal(t, "12 B  |  /x", row)
}

func TestRemoveEntry(t *testing.T) {
	in := []types.Entry{{Path: "/a"}, {Path: "/b"}}
	out, found := removeEntry(in, "/a")
	assert.True(t, found)
	assert.Equal(t, []types.Entry{{Path: "/b"}}, out)
	assert.Len(t, in, 2)

	_, found = removeEntry(in, "/z")
	assert.False(t, found)
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "/short", truncatePath("/short", 20))
	assert.Equal(t, ".../file.txt", truncatePath("/very/long/path/file.txt", 12))
	assert.Equal(t, "/ve", truncatePath("/very", 3))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", formatDuration(0))
	assert.Equal(t, "1:05", formatDuration(65*time.Second))
}

func TestLogPane(t *testing.T) {
	assert.Contains(t, renderLogPane(nil, 80, 5), "(no log entries)")

	buf := logging.NewLogBuffer(10)
	buf.Add(logging.Entry{Time: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), Level: logging.LevelWarn, Component: "engine", Message: "slow disk"})
	out := renderLogPane(buf, 80, 5)
	assert.Contains(t, out, "03:04:05 W [engine] slow disk")

	line := formatLogEntry(logging.Entry{Message: strings.Repeat("x", 200)}, 40)
	assert.Contains(t, line, "...")
}
