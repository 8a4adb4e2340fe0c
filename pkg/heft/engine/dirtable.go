package engine

import (
	"slices"

	"github.com/jamesainslie/heft/pkg/heft/types"
)

// DirTable maps a directory path to the summed size of the regular files
// directly inside it. Sizes of nested directories are never rolled up.
// Insertion order is remembered so rankings of equal sizes are repeatable.
type DirTable struct {
	sizes map[string]int64
	order []string
}

// NewDirTable returns an empty table.
func NewDirTable() *DirTable {
	return &DirTable{sizes: make(map[string]int64)}
}

// Touch creates a zero entry for dir if it has none.
func (t *DirTable) Touch(dir string) {
	if _, ok := t.sizes[dir]; ok {
		return
	}
	t.sizes[dir] = 0
	t.order = append(t.order, dir)
}

// Add adds size to dir, creating the entry if needed.
func (t *DirTable) Add(dir string, size int64) {
	t.Touch(dir)
	t.sizes[dir] += size
}

// Size returns the aggregate for dir and whether it is known.
func (t *DirTable) Size(dir string) (int64, bool) {
	s, ok := t.sizes[dir]
	return s, ok
}

// Len returns the number of directories tracked.
func (t *DirTable) Len() int {
	return len(t.order)
}

// Top returns the k largest directories, largest first. The result is a
// fresh slice.
func (t *DirTable) Top(k int) []types.Entry {
	all := make([]types.Entry, len(t.order))
	for i, dir := range t.order {
		all[i] = types.Entry{Path: dir, Size: t.sizes[dir]}
	}
	slices.SortStableFunc(all, bySizeDesc)
	if k >= 0 && len(all) > k {
		all = all[:k:k]
	}
	return all
}
