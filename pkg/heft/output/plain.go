package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"text/tabwriter"

	"github.com/jamesainslie/heft/pkg/heft/types"
)

// PlainFormatter renders both rankings as aligned, unstyled columns for
// scripting and piping.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *types.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	if _, err := tw.Write([]byte("KIND\tSIZE\tPATH\n")); err != nil {
		return err
	}
	for _, row := range rows(r) {
		line := row.kind + "\t" + types.FormatSizeCompact(row.Size) + "\t" + row.Path + "\n"
		if _, err := tw.Write([]byte(line)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// CSVFormatter renders both rankings as RFC 4180 CSV with sizes in bytes.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *types.Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"kind", "size", "path"}); err != nil {
		return err
	}
	for _, row := range rows(r) {
		if err := writer.Write([]string{row.kind, strconv.FormatInt(row.Size, 10), row.Path}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

type row struct {
	kind string
	types.Entry
}

// rows lists directories first, then files, each in ranking order.
func rows(r *types.Report) []row {
	out := make([]row, 0, len(r.TopDirs)+len(r.TopFiles))
	for _, e := range r.TopDirs {
		out = append(out, row{kind: "dir", Entry: e})
	}
	for _, e := range r.TopFiles {
		out = append(out, row{kind: "file", Entry: e})
	}
	return out
}

func init() {
	Register("plain", "aligned columns without color", func() Formatter {
		return &PlainFormatter{}
	})
	Register("csv", "kind,size,path with sizes in bytes", func() Formatter {
		return &CSVFormatter{}
	})
}

var (
	_ Formatter = (*PlainFormatter)(nil)
	_ Formatter = (*CSVFormatter)(nil)
)
