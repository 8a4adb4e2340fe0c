// Package filter narrows the ranking lists of a snapshot for display. It
// works on copies only; the scan itself always sees every entry.
package filter

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/jamesainslie/heft/pkg/heft/engine"
	"github.com/jamesainslie/heft/pkg/heft/types"
)

// ErrInvalidPattern wraps glob compile failures.
var ErrInvalidPattern = errors.New("invalid pattern")

// pattern is a compiled glob. Patterns without a slash match the base
// name; the rest match the whole slash-separated path.
type pattern struct {
	source   string
	g        glob.Glob
	baseOnly bool
}

func compile(src string) (pattern, error) {
	src = strings.TrimSpace(src)
	g, err := glob.Compile(src, '/')
	if err != nil {
		return pattern{}, fmt.Errorf("%w %q: %w", ErrInvalidPattern, src, err)
	}
	return pattern{source: src, g: g, baseOnly: !strings.Contains(src, "/")}, nil
}

func (p pattern) match(slashPath string) bool {
	if p.baseOnly {
		return p.g.Match(path.Base(slashPath))
	}
	return p.g.Match(slashPath)
}

// Filter holds compiled include and exclude patterns plus a size floor.
type Filter struct {
	include []pattern
	exclude []pattern
	minSize int64
}

// Option configures a Filter.
type Option func(*Filter) error

// WithInclude keeps only entries matching at least one pattern.
func WithInclude(patterns ...string) Option {
	return func(f *Filter) error {
		for _, src := range patterns {
			if strings.TrimSpace(src) == "" {
				continue
			}
			p, err := compile(src)
			if err != nil {
				return err
			}
			f.include = append(f.include, p)
		}
		return nil
	}
}

// WithExclude drops entries matching any pattern.
func WithExclude(patterns ...string) Option {
	return func(f *Filter) error {
		for _, src := range patterns {
			if strings.TrimSpace(src) == "" {
				continue
			}
			p, err := compile(src)
			if err != nil {
				return err
			}
			f.exclude = append(f.exclude, p)
		}
		return nil
	}
}

// WithMinSize drops entries smaller than n bytes.
func WithMinSize(n int64) Option {
	return func(f *Filter) error {
		f.minSize = max(n, 0)
		return nil
	}
}

// New compiles a Filter. It fails on the first bad pattern.
func New(opts ...Option) (*Filter, error) {
	f := &Filter{}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Empty reports whether the filter lets everything through.
func (f *Filter) Empty() bool {
	return f == nil || (len(f.include) == 0 && len(f.exclude) == 0 && f.minSize == 0)
}

// String renders the active criteria for a status line.
func (f *Filter) String() string {
	if f.Empty() {
		return ""
	}
	var parts []string
	for _, p := range f.include {
		parts = append(parts, "+"+p.source)
	}
	for _, p := range f.exclude {
		parts = append(parts, "-"+p.source)
	}
	if f.minSize > 0 {
		parts = append(parts, ">="+types.FormatSize(f.minSize))
	}
	return strings.Join(parts, " ")
}

// Match reports whether an entry passes.
func (f *Filter) Match(e types.Entry) bool {
	if f.Empty() {
		return true
	}
	if e.Size < f.minSize {
		return false
	}
	p := filepath.ToSlash(e.Path)
	for _, x := range f.exclude {
		if x.match(p) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, in := range f.include {
		if in.match(p) {
			return true
		}
	}
	return false
}

// Apply returns the passing entries in their original order. The input is
// not modified.
func (f *Filter) Apply(entries []types.Entry) []types.Entry {
	out := make([]types.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot returns a copy of s with both ranking lists filtered. Counters
// are left as the engine reported them.
func (f *Filter) Snapshot(s engine.Snapshot) engine.Snapshot {
	s.TopDirs = f.Apply(s.TopDirs)
	s.TopFiles = f.Apply(s.TopFiles)
	return s
}

// Parse splits a free-form query such as "*.iso -*/cache/* >=1G" into a
// Filter: plain words include, a leading '-' excludes, '>=' sets the size
// floor.
func Parse(query string) (*Filter, error) {
	var opts []Option
	for _, field := range strings.Fields(query) {
		switch {
		case strings.HasPrefix(field, ">="):
			n, err := types.ParseSize(field[2:])
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithMinSize(n))
		case strings.HasPrefix(field, "-") && len(field) > 1:
			opts = append(opts, WithExclude(field[1:]))
		default:
			opts = append(opts, WithInclude(strings.TrimPrefix(field, "+")))
		}
	}
	return New(opts...)
}
