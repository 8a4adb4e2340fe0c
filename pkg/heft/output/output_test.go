package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/heft/pkg/heft/types"
)

func sampleReport() *types.Report {
	return &types.Report{
		Root:         "/home/user",
		Outcome:      "completed",
		ScannedDirs:  1200,
		ScannedFiles: 48000,
		TopDirs: []types.Entry{
			{Path: "/home/user/Videos", Size: 3 * types.GiB},
			{Path: "/home/user/Downloads", Size: 512 * types.MiB},
		},
		TopFiles: []types.Entry{
			{Path: "/home/user/Videos/film.mkv", Size: 2 * types.GiB},
			{Path: "/home/user/Downloads/disk, copy.iso", Size: 700 * types.MiB},
			{Path: "/home/user/notes.txt", Size: 12},
		},
		Elapsed: 1500 * time.Millisecond,
	}
}

func render(t *testing.T, name string, r *types.Report) string {
	t.Helper()
	out, err := Render(name, r)
	require.NoError(t, err)
	return string(out)
}

func TestRegistry_Available(t *testing.T) {
	assert.Equal(t, []string{"csv", "json", "paths", "plain", "table", "yaml"}, Available())
}

func TestRegistry_UnknownFormat(t *testing.T) {
	_, err := Get("xml")
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Render("xml", sampleReport())
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRegistry_Replace(t *testing.T) {
	reg := NewRegistry()
	reg.Register("x", "first", func() Formatter { return &PathsFormatter{} })
	reg.Register("x", "second", func() Formatter { return &PlainFormatter{} })

	f, err := reg.Get("x")
	require.NoError(t, err)
	assert.IsType(t, &PlainFormatter{}, f)
	assert.Equal(t, []string{"x"}, reg.Available())
	require.Len(t, reg.Formats(), 1)
	assert.Equal(t, "second", reg.Formats()[0].Description)
}

func TestFormats_Described(t *testing.T) {
	formats := Formats()
	require.Len(t, formats, len(Available()))
	for i, f := range formats {
		assert.Equal(t, Available()[i], f.Name)
		assert.NotEmpty(t, f.Description, f.Name)
	}
}

func TestTableFormatter(t *testing.T) {
	out := render(t, "table", sampleReport())

	assert.Contains(t, out, "/home/user")
	assert.Contains(t, out, "Largest directories")
	assert.Contains(t, out, "Largest files")
	assert.Contains(t, out, "3.00 GB")
	assert.Contains(t, out, "700.00 MB")
	assert.Contains(t, out, "12 B")
	assert.Contains(t, out, "1,200 dirs")
	assert.Contains(t, out, "48,000 files")
	assert.Contains(t, out, "completed")
	assert.Less(t, strings.Index(out, "film.mkv"), strings.Index(out, "notes.txt"))
}

func TestTableFormatter_Empty(t *testing.T) {
	out := render(t, "table", &types.Report{Root: "/x", Outcome: "stopped"})
	assert.Contains(t, out, "nothing found")
	assert.Contains(t, out, "stopped")
}

func TestPlainFormatter(t *testing.T) {
	out := render(t, "plain", sampleReport())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "KIND"))
	assert.True(t, strings.HasPrefix(lines[1], "dir"))
	assert.Contains(t, lines[1], "3.00 GB")
	assert.True(t, strings.HasPrefix(lines[3], "file"))
	assert.True(t, strings.HasSuffix(lines[5], "/home/user/notes.txt"))
	assert.NotContains(t, out, "\x1b[")
}

func TestCSVFormatter_QuotesAndRawSizes(t *testing.T) {
	out := render(t, "csv", sampleReport())

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)

	assert.Equal(t, []string{"kind", "size", "path"}, records[0])
	assert.Equal(t, []string{"file", "734003200", "/home/user/Downloads/disk, copy.iso"}, records[4])
}

func TestPathsFormatter_FilesOnly(t *testing.T) {
	out := render(t, "paths", sampleReport())
	assert.Equal(t,
		"/home/user/Videos/film.mkv\n/home/user/Downloads/disk, copy.iso\n/home/user/notes.txt\n",
		out)
}

func TestJSONFormatter(t *testing.T) {
	var doc document
	require.NoError(t, json.Unmarshal([]byte(render(t, "json", sampleReport())), &doc))

	assert.Equal(t, "/home/user", doc.Root)
	assert.Equal(t, "completed", doc.Outcome)
	assert.Equal(t, int64(1200), doc.Stats.ScannedDirs)
	assert.Equal(t, "1.5s", doc.Stats.Elapsed)
	require.Len(t, doc.Files, 3)
	assert.Equal(t, 2*types.GiB, doc.Files[0].Size)
	assert.Equal(t, "2.0 GiB", doc.Files[0].SizeHuman)
}

func TestJSONFormatter_EmptyListsAreArrays(t *testing.T) {
	out := render(t, "json", &types.Report{Root: "/", Outcome: "completed"})

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, []any{}, parsed["top_files"])
	assert.Equal(t, []any{}, parsed["top_dirs"])
}

func TestYAMLFormatter(t *testing.T) {
	var doc document
	require.NoError(t, yaml.Unmarshal([]byte(render(t, "yaml", sampleReport())), &doc))

	assert.Equal(t, "/home/user", doc.Root)
	require.Len(t, doc.Dirs, 2)
	assert.Equal(t, "/home/user/Videos", doc.Dirs[0].Path)
}

func TestFormatters_WriteIntoExistingBuffer(t *testing.T) {
	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			f, err := Get(name)
			require.NoError(t, err)

			var buf bytes.Buffer
			buf.WriteString("prefix")
			require.NoError(t, f.Format(&buf, sampleReport()))
			assert.True(t, strings.HasPrefix(buf.String(), "prefix"))
			assert.Greater(t, buf.Len(), len("prefix"))
		})
	}
}
