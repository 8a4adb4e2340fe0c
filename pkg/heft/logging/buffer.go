package logging

import "sync"

// DefaultBufferSize is the number of records the TUI log panel keeps.
const DefaultBufferSize = 200

// LogBuffer is a fixed-size ring of recent records.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []Entry
	head    int
	count   int
}

// NewLogBuffer returns a ring holding up to size records.
func NewLogBuffer(size int) *LogBuffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &LogBuffer{entries: make([]Entry, size)}
}

// Add appends a record, overwriting the oldest one when full.
func (b *LogBuffer) Add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[(b.head+b.count)%len(b.entries)] = e
	if b.count < len(b.entries) {
		b.count++
		return
	}
	b.head = (b.head + 1) % len(b.entries)
}

// Last returns up to n of the newest records, oldest first.
func (b *LogBuffer) Last(n int) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n > b.count || n < 0 {
		n = b.count
	}
	out := make([]Entry, n)
	skip := b.count - n
	for i := range out {
		out[i] = b.entries[(b.head+skip+i)%len(b.entries)]
	}
	return out
}

// Entries returns every record held, oldest first.
func (b *LogBuffer) Entries() []Entry {
	return b.Last(-1)
}

func (b *LogBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}
