package engine

import "github.com/jamesainslie/heft/pkg/heft/types"

// FinishedDir is the CurrentDir of the last snapshot of every scan.
const FinishedDir = "(done)"

// Outcome is how a scan ended.
type Outcome string

const (
	Completed Outcome = "completed"
	Stopped   Outcome = "stopped"
)

// Snapshot is a point-in-time copy of scan progress. Consumers own it; the
// engine never touches a snapshot after handing it out.
type Snapshot struct {
	CurrentDir   string
	ScannedDirs  int64
	ScannedFiles int64
	TopDirs      []types.Entry
	TopFiles     []types.Entry
}

// Final reports whether this is the closing snapshot of a scan.
func (s Snapshot) Final() bool {
	return s.CurrentDir == FinishedDir
}

// Report converts a final snapshot into the shape the output formatters use.
func (s Snapshot) Report(root string, outcome Outcome) *types.Report {
	return &types.Report{
		Root:         root,
		Outcome:      string(outcome),
		ScannedDirs:  s.ScannedDirs,
		ScannedFiles: s.ScannedFiles,
		TopDirs:      s.TopDirs,
		TopFiles:     s.TopFiles,
	}
}

// UpdateFunc receives snapshots in the order they were taken.
type UpdateFunc func(Snapshot)

// DoneFunc is called exactly once, after the final snapshot.
type DoneFunc func(Outcome)
