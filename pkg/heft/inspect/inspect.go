// Package inspect gathers details about a single entry picked from the
// rankings: file metadata and content type, or the full recursive size of
// a directory.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
)

// Details describes a file.
type Details struct {
	Path    string      `json:"path" yaml:"path"`
	Size    int64       `json:"size" yaml:"size"`
	ModTime time.Time   `json:"mod_time" yaml:"mod_time"`
	Mode    fs.FileMode `json:"mode" yaml:"mode"`
	MIME    string      `json:"mime,omitempty" yaml:"mime,omitempty"`
	Kind    string      `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// File stats path and sniffs its content type. The type is left empty
// when the file cannot be read.
func File(path string) (Details, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Details{}, fmt.Errorf("inspecting %q: %w", path, err)
	}
	d := Details{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Mode:    info.Mode(),
	}
	if info.IsDir() {
		d.Kind = "DIR"
		return d, nil
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return d, nil
	}
	d.MIME = mt.String()
	d.Kind = strings.ToUpper(strings.TrimPrefix(mt.Extension(), "."))
	return d, nil
}

// Tree is the recursive size of a directory.
type Tree struct {
	Bytes int64 `json:"bytes" yaml:"bytes"`
	Files int64 `json:"files" yaml:"files"`
	Dirs  int64 `json:"dirs" yaml:"dirs"`
}

// TreeSize walks dir in parallel and totals every regular file beneath it.
// Links are not followed. Unreadable entries are skipped. A cancelled ctx
// returns the partial total together with ctx.Err().
func TreeSize(ctx context.Context, dir string) (Tree, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Tree{}, fmt.Errorf("resolving %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Tree{}, fmt.Errorf("inspecting %q: %w", dir, err)
	}
	if !info.IsDir() {
		return Tree{Bytes: info.Size(), Files: 1}, nil
	}

	var bytes, files, dirs atomic.Int64
	conf := &fastwalk.Config{Follow: false}

	walkErr := fastwalk.Walk(conf, abs, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != abs {
				dirs.Add(1)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		files.Add(1)
		bytes.Add(fi.Size())
		return nil
	})

	t := Tree{Bytes: bytes.Load(), Files: files.Load(), Dirs: dirs.Load()}
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return t, walkErr
		}
		return t, fmt.Errorf("walking %q: %w", dir, walkErr)
	}
	return t, nil
}
