package output

import (
	"bytes"
	"encoding/json"

	"github.com/jamesainslie/heft/pkg/heft/types"
)

// document is the shared JSON/YAML shape of a report.
type document struct {
	Root    string     `json:"root" yaml:"root"`
	Outcome string     `json:"outcome" yaml:"outcome"`
	Stats   docStats   `json:"stats" yaml:"stats"`
	Dirs    []docEntry `json:"top_dirs" yaml:"top_dirs"`
	Files   []docEntry `json:"top_files" yaml:"top_files"`
}

type docStats struct {
	ScannedDirs  int64  `json:"scanned_dirs" yaml:"scanned_dirs"`
	ScannedFiles int64  `json:"scanned_files" yaml:"scanned_files"`
	Elapsed      string `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`
}

type docEntry struct {
	Path      string `json:"path" yaml:"path"`
	Size      int64  `json:"size" yaml:"size"`
	SizeHuman string `json:"size_human" yaml:"size_human"`
}

func buildDocument(r *types.Report) document {
	doc := document{
		Root:    r.Root,
		Outcome: r.Outcome,
		Stats: docStats{
			ScannedDirs:  r.ScannedDirs,
			ScannedFiles: r.ScannedFiles,
		},
		Dirs:  docEntries(r.TopDirs),
		Files: docEntries(r.TopFiles),
	}
	if r.Elapsed > 0 {
		doc.Stats.Elapsed = r.Elapsed.String()
	}
	return doc
}

func docEntries(entries []types.Entry) []docEntry {
	out := make([]docEntry, len(entries))
	for i, e := range entries {
		out[i] = docEntry{Path: e.Path, Size: e.Size, SizeHuman: e.HumanSize()}
	}
	return out
}

// JSONFormatter formats the report as a single indented JSON object.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *types.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildDocument(r))
}

func init() {
	Register("json", "indented JSON document", func() Formatter {
		return &JSONFormatter{}
	})
}

var _ Formatter = (*JSONFormatter)(nil)
