package output

import (
	"bytes"

	"github.com/jamesainslie/heft/pkg/heft/types"
)

// PathsFormatter writes one ranked file path per line, largest first,
// suitable for piping to other tools. Directories are omitted.
type PathsFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PathsFormatter) Format(w *bytes.Buffer, r *types.Report) error {
	for _, e := range r.TopFiles {
		w.WriteString(e.Path)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("paths", "largest file paths, one per line", func() Formatter {
		return &PathsFormatter{}
	})
}

var _ Formatter = (*PathsFormatter)(nil)
