package trash

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// freedesktop moves path into the freedesktop.org home trash: the file is
// renamed into Trash/files and a matching .trashinfo is written to
// Trash/info. Files on another device than the trash directory are refused
// rather than copied.
func (t *Trasher) freedesktop(path string) error {
	filesDir := filepath.Join(t.trashDir, "files")
	infoDir := filepath.Join(t.trashDir, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating trash directory: %w", err)
		}
	}

	name, info, err := t.reserveInfo(infoDir, filepath.Base(path))
	if err != nil {
		return err
	}

	body := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escapeTrashPath(path), t.now().Format("2006-01-02T15:04:05"))
	if _, err := info.WriteString(body); err != nil {
		_ = info.Close()
		_ = os.Remove(info.Name())
		return fmt.Errorf("writing trash info: %w", err)
	}
	if err := info.Close(); err != nil {
		_ = os.Remove(info.Name())
		return fmt.Errorf("writing trash info: %w", err)
	}

	if err := os.Rename(path, filepath.Join(filesDir, name)); err != nil {
		_ = os.Remove(info.Name())
		return fmt.Errorf("moving %q into trash: %w", path, err)
	}
	return nil
}

// reserveInfo creates info/<name>.trashinfo exclusively, adding a numeric
// suffix until the name is free.
func (t *Trasher) reserveInfo(infoDir, base string) (string, *os.File, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 0; i < 1000; i++ {
		name := base
		if i > 0 {
			name = stem + "." + strconv.Itoa(i) + ext
		}
		f, err := os.OpenFile(filepath.Join(infoDir, name+".trashinfo"), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			if _, statErr := os.Lstat(filepath.Join(t.trashDir, "files", name)); statErr == nil {
				_ = f.Close()
				_ = os.Remove(f.Name())
				continue
			}
			return name, f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", nil, fmt.Errorf("creating trash info: %w", err)
		}
	}
	return "", nil, fmt.Errorf("no free trash name for %q", base)
}

// escapeTrashPath percent-encodes each segment for the .trashinfo Path key,
// keeping the separators.
func escapeTrashPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
