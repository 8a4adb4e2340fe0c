// Package trash moves files to the desktop trash so a deletion can be
// undone. It never deletes permanently: when no trash mechanism works the
// file is left in place and an error is returned.
package trash

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"

	"github.com/jamesainslie/heft/pkg/heft/logging"
)

var logger = logging.Get("trash")

// commandTimeout bounds each external trash helper.
const commandTimeout = 30 * time.Second

// Method names the mechanism that moved a file.
type Method string

const (
	MethodFinder      Method = "finder"
	MethodGio         Method = "gio"
	MethodTrashPut    Method = "trash-put"
	MethodFreedesktop Method = "freedesktop"
	MethodRecycleBin  Method = "recycle-bin"
)

// ErrNotRegularFile is returned for directories, links and devices.
var ErrNotRegularFile = errors.New("not a regular file")

// ErrUnavailable is returned when every mechanism for the platform failed.
var ErrUnavailable = errors.New("no trash mechanism available")

// Result describes a completed move.
type Result struct {
	Path   string
	Size   int64
	Method Method
}

// Runner executes an external command.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return nil
}

// Trasher moves files to the trash.
type Trasher struct {
	goos     string
	run      Runner
	lookPath func(string) (string, error)
	trashDir string
	now      func() time.Time
}

// Option configures a Trasher.
type Option func(*Trasher)

// WithRunner replaces how external helpers are executed.
func WithRunner(r Runner) Option {
	return func(t *Trasher) { t.run = r }
}

// WithLookPath replaces the helper lookup.
func WithLookPath(f func(string) (string, error)) Option {
	return func(t *Trasher) { t.lookPath = f }
}

// WithTrashDir sets the freedesktop trash directory, which defaults to
// $XDG_DATA_HOME/Trash.
func WithTrashDir(dir string) Option {
	return func(t *Trasher) { t.trashDir = dir }
}

// WithGOOS overrides the platform the Trasher acts for.
func WithGOOS(goos string) Option {
	return func(t *Trasher) { t.goos = goos }
}

// New returns a Trasher for the running platform.
func New(opts ...Option) *Trasher {
	t := &Trasher{
		goos:     runtime.GOOS,
		run:      execRunner,
		lookPath: exec.LookPath,
		trashDir: filepath.Join(xdg.DataHome, "Trash"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Trash moves a single regular file to the trash.
func (t *Trasher) Trash(ctx context.Context, path string) (Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{}, fmt.Errorf("resolving %q: %w", path, err)
	}

	info, err := os.Lstat(abs)
	if err != nil {
		return Result{}, fmt.Errorf("cannot trash %q: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return Result{}, fmt.Errorf("cannot trash %q: %w", path, ErrNotRegularFile)
	}

	method, err := t.move(ctx, abs)
	if err != nil {
		logger.Warn("trash failed", "path", abs, "err", err)
		return Result{}, err
	}

	logger.Info("moved to trash", "path", abs, "size", info.Size(), "method", method)
	return Result{Path: abs, Size: info.Size(), Method: method}, nil
}

func (t *Trasher) move(ctx context.Context, path string) (Method, error) {
	switch t.goos {
	case "darwin":
		script := fmt.Sprintf(`tell application "Finder" to delete POSIX file %q`, path)
		if err := t.helper(ctx, "osascript", "-e", script); err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return MethodFinder, nil

	case "windows":
		script := recycleScript(path)
		if err := t.helper(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script); err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return MethodRecycleBin, nil

	default:
		var errs []error
		for _, tool := range []struct {
			method Method
			name   string
			args   []string
		}{
			{MethodGio, "gio", []string{"trash", path}},
			{MethodTrashPut, "trash-put", []string{path}},
		} {
			err := t.helper(ctx, tool.name, tool.args...)
			if err == nil && gone(path) {
				return tool.method, nil
			}
			if err == nil {
				err = fmt.Errorf("%s left the file in place", tool.name)
			}
			errs = append(errs, err)
		}

		err := t.freedesktop(path)
		if err == nil {
			return MethodFreedesktop, nil
		}
		errs = append(errs, err)
		return "", fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
	}
}

// helper runs an external command if it is installed.
func (t *Trasher) helper(ctx context.Context, name string, args ...string) error {
	bin, err := t.lookPath(name)
	if err != nil {
		return fmt.Errorf("%s not found: %w", name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	return t.run(ctx, bin, args...)
}

func gone(path string) bool {
	_, err := os.Lstat(path)
	return errors.Is(err, os.ErrNotExist)
}

// MoveToTrash trashes path with a default Trasher.
func MoveToTrash(ctx context.Context, path string) (Result, error) {
	return New().Trash(ctx, path)
}

// recycleScript builds the PowerShell command that recycles path. The path
// travels base64 encoded so that no character of it is parsed as script;
// PowerShell treats several typographic quotes as string delimiters.
func recycleScript(path string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(path))
	return fmt.Sprintf(
		`$p = [Text.Encoding]::UTF8.GetString([Convert]::FromBase64String('%s')); `+
			`Add-Type -AssemblyName Microsoft.VisualBasic; `+
			`[Microsoft.VisualBasic.FileIO.FileSystem]::DeleteFile($p,'OnlyErrorDialogs','SendToRecycleBin')`,
		encoded)
}
