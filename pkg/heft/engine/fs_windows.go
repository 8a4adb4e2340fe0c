//go:build windows

package engine

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

// canonical asks the file system for the final path of the opened
// directory. EvalSymlinks leaves junctions and mount points in place, so a
// junction pointing at an ancestor would otherwise get a fresh key on every
// level.
func canonical(name string) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}
	p, err := finalPath(abs)
	if err != nil {
		logger.Debug("final path unavailable", "path", abs, "err", err)
		return filepath.EvalSymlinks(abs)
	}
	return p, nil
}

// GetFinalPathNameByHandle flags (winbase.h); x/sys/windows does not
// export them.
const (
	fileNameNormalized = 0x0 // FILE_NAME_NORMALIZED
	volumeNameDOS      = 0x0 // VOLUME_NAME_DOS
)

func finalPath(path string) (string, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return "", err
	}
	// FILE_FLAG_BACKUP_SEMANTICS is required to open a directory handle.
	h, err := windows.CreateFile(p, 0,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil, windows.OPEN_EXISTING, windows.FILE_FLAG_BACKUP_SEMANTICS, 0)
	if err != nil {
		return "", err
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_PATH)
	for {
		n, err := windows.GetFinalPathNameByHandle(h, &buf[0], uint32(len(buf)),
			fileNameNormalized|volumeNameDOS)
		if err != nil {
			return "", err
		}
		// n includes the terminator when the buffer was too small.
		if n < uint32(len(buf)) {
			return stripVerbatim(windows.UTF16ToString(buf[:n])), nil
		}
		buf = make([]uint16, n)
	}
}

func stripVerbatim(p string) string {
	if rest, ok := strings.CutPrefix(p, `\\?\UNC\`); ok {
		return `\\` + rest
	}
	return strings.TrimPrefix(p, `\\?\`)
}
