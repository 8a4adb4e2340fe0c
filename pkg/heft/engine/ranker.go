package engine

import (
	"cmp"
	"slices"

	"github.com/jamesainslie/heft/pkg/heft/types"
)

// Ranker keeps the K largest files offered to it, largest first.
// Offering appends, stably re-sorts and truncates, so among equal sizes the
// earlier offer wins.
type Ranker struct {
	limit   int
	entries []types.Entry
}

// NewRanker returns a ranker keeping at most k entries.
func NewRanker(k int) *Ranker {
	if k < 0 {
		k = 0
	}
	return &Ranker{limit: k, entries: make([]types.Entry, 0, k+1)}
}

// Offer considers a file for the ranking.
func (r *Ranker) Offer(path string, size int64) {
	if r.limit == 0 {
		return
	}
	if len(r.entries) == r.limit && size <= r.entries[len(r.entries)-1].Size {
		return
	}
	r.entries = append(r.entries, types.Entry{Path: path, Size: size})
	slices.SortStableFunc(r.entries, bySizeDesc)
	if len(r.entries) > r.limit {
		r.entries = r.entries[:r.limit]
	}
}

// Len returns the number of ranked entries.
func (r *Ranker) Len() int {
	return len(r.entries)
}

// Entries returns a copy of the ranking, largest first.
func (r *Ranker) Entries() []types.Entry {
	return slices.Clone(r.entries)
}

func bySizeDesc(a, b types.Entry) int {
	return cmp.Compare(b.Size, a.Size)
}
