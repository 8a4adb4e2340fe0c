// Package output renders a finished scan report in one of several formats
// (table, plain, csv, paths, json, yaml).
//
// Formats are looked up by name:
//
//	out, err := output.Render("json", report)
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(out)
package output

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/jamesainslie/heft/pkg/heft/types"
)

// ErrUnknownFormat is returned for a name nobody registered.
var ErrUnknownFormat = errors.New("unknown output format")

// Formatter renders a report into w. Formatters append to w and never
// reset it.
type Formatter interface {
	Format(w *bytes.Buffer, r *types.Report) error
}

// FormatterFactory returns a fresh Formatter.
type FormatterFactory func() Formatter

// Format describes a registered format.
type Format struct {
	Name        string
	Description string
	factory     FormatterFactory
}

// Registry maps format names to factories. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]Format)}
}

// Register adds or replaces the format called name.
func (r *Registry) Register(name, description string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formats[name] = Format{Name: name, Description: description, factory: factory}
}

// Get returns a new formatter for name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	f, ok := r.formats[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	return f.factory(), nil
}

// Available returns the registered names in sorted order.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.formats))
}

// Formats returns every registered format sorted by name.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.SortedFunc(maps.Values(r.formats), func(a, b Format) int {
		return cmp.Compare(a.Name, b.Name)
	})
}

var defaultRegistry = NewRegistry()

// Register adds a format to the package registry.
func Register(name, description string, factory FormatterFactory) {
	defaultRegistry.Register(name, description, factory)
}

// Get returns a formatter from the package registry.
func Get(name string) (Formatter, error) { return defaultRegistry.Get(name) }

// Available lists the package registry's format names.
func Available() []string { return defaultRegistry.Available() }

// Formats lists the package registry's formats with descriptions.
func Formats() []Format { return defaultRegistry.Formats() }

// Render formats r with the named format.
func Render(name string, r *types.Report) ([]byte, error) {
	f, err := Get(name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Format(&buf, r); err != nil {
		return nil, fmt.Errorf("format %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func total(entries []types.Entry) int64 {
	var n int64
	for _, e := range entries {
		n += e.Size
	}
	return n
}
