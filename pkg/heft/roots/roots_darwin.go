//go:build darwin

package roots

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

var skipFS = map[string]bool{
	"smbfs": true, "nfs": true, "afpfs": true, "webdav": true, "cifs": true,
	"devfs": true, "autofs": true, "mtmfs": true, "nullfs": true,
}

func platformVolumes() []Root {
	root, _ := volume("/")
	root.Label = "Macintosh HD"
	out := []Root{root}

	entries, err := os.ReadDir("/Volumes")
	if err != nil {
		return out
	}
	for _, e := range entries {
		r, fstype := volume(filepath.Join("/Volumes", e.Name()))
		if skipFS[fstype] || r.TotalBytes == 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}

func volume(path string) (Root, string) {
	r := Root{Path: path, Label: filepath.Base(path), Kind: KindVolume}
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return r, ""
	}
	r.TotalBytes = int64(st.Blocks) * int64(st.Bsize)
	r.FreeBytes = int64(st.Bavail) * int64(st.Bsize)
	return r, unix.ByteSliceToString(st.Fstypename[:])
}
