// Package opener hands paths to the desktop: opening a file or directory
// with its default application, revealing a file in the file manager, or
// showing the trash.
package opener

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"

	"github.com/jamesainslie/heft/pkg/heft/logging"
)

var logger = logging.Get("opener")

// Starter launches a detached process.
type Starter func(name string, args ...string) error

// Querier runs a command to completion and returns its standard output.
type Querier func(name string, args ...string) (string, error)

func queryOutput(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	return string(out), err
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// Opener runs the platform's open and reveal commands.
type Opener struct {
	goos     string
	start    Starter
	query    Querier
	home     string
	trashDir string
}

// New returns an Opener for the running platform.
func New() *Opener {
	home, _ := os.UserHomeDir()
	return &Opener{
		goos:     runtime.GOOS,
		start:    startDetached,
		query:    queryOutput,
		home:     home,
		trashDir: filepath.Join(xdg.DataHome, "Trash", "files"),
	}
}

// Open opens path with the default handler for its type. Directories open
// in the file manager.
func (o *Opener) Open(path string) error {
	abs, err := existing(path)
	if err != nil {
		return err
	}
	name, args := o.openCommand(abs)
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("opening %q: %w", abs, err)
	}
	return nil
}

// Reveal shows path in the file manager. Explorer and Finder select the
// item; elsewhere the containing directory is opened.
func (o *Opener) Reveal(path string) error {
	abs, err := existing(path)
	if err != nil {
		return err
	}
	var name string
	var args []string
	switch o.goos {
	case "windows":
		name, args = "explorer", []string{"/select," + abs}
	case "darwin":
		name, args = "open", []string{"-R", abs}
	default:
		name, args = o.openCommand(filepath.Dir(abs))
	}
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("revealing %q: %w", abs, err)
	}
	return nil
}

// OpenTrash shows the trash or recycle bin in the file manager. Elsewhere
// than Windows and macOS, trash:/// is used only when a handler for the
// scheme is registered; otherwise the freedesktop trash directory is opened.
func (o *Opener) OpenTrash() error {
	var name string
	var args []string
	switch o.goos {
	case "windows":
		name, args = "explorer", []string{"shell:RecycleBinFolder"}
	case "darwin":
		name, args = "open", []string{filepath.Join(o.home, ".Trash")}
	default:
		if o.trashHandler() {
			name, args = "xdg-open", []string{"trash:///"}
		} else {
			if err := os.MkdirAll(o.trashDir, 0o700); err != nil {
				return fmt.Errorf("opening trash: %w", err)
			}
			name, args = "xdg-open", []string{o.trashDir}
		}
	}
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("opening trash: %w", err)
	}
	return nil
}

func (o *Opener) trashHandler() bool {
	out, err := o.query("xdg-mime", "query", "default", "x-scheme-handler/trash")
	if err != nil {
		logger.Debug("no trash scheme handler", "err", err)
		return false
	}
	return strings.TrimSpace(out) != ""
}

func (o *Opener) openCommand(abs string) (string, []string) {
	switch o.goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", abs}
	case "darwin":
		return "open", []string{abs}
	default:
		return "xdg-open", []string{abs}
	}
}

func existing(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("cannot open %q: %w", path, err)
	}
	return abs, nil
}

// Open opens path with a default Opener.
func Open(path string) error {
	return New().Open(path)
}

// Reveal reveals path with a default Opener.
func Reveal(path string) error {
	return New().Reveal(path)
}

// OpenTrash shows the trash with a default Opener.
func OpenTrash() error {
	return New().OpenTrash()
}
