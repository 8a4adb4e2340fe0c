//go:build linux

package roots

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// pseudoFS lists filesystem types that hold no user data worth scanning.
var pseudoFS = map[string]bool{
	"proc": true, "sysfs": true, "devtmpfs": true, "devpts": true, "tmpfs": true,
	"cgroup": true, "cgroup2": true, "securityfs": true, "pstore": true, "bpf": true,
	"debugfs": true, "tracefs": true, "configfs": true, "fusectl": true, "mqueue": true,
	"hugetlbfs": true, "autofs": true, "binfmt_misc": true, "rpc_pipefs": true,
	"nsfs": true, "squashfs": true, "overlay": true, "efivarfs": true, "ramfs": true,
	"selinuxfs": true, "fuse.portal": true, "fuse.gvfsd-fuse": true,
}

// platformVolumes always offers / first, then every other real mount.
func platformVolumes() []Root {
	out := []Root{volume("/")}

	f, err := os.Open("/proc/self/mounts")
	if err != nil {
		logger.Debug("cannot read mounts", "err", err)
		return out
	}
	defer f.Close()

	for _, mp := range parseMounts(f) {
		if mp == "/" || !isDir(mp) {
			continue
		}
		if r := volume(mp); r.TotalBytes > 0 {
			out = append(out, r)
		}
	}
	return out
}

// parseMounts returns the mount points of real filesystems in the order the
// kernel lists them.
func parseMounts(r io.Reader) []string {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		mp, fstype := unescapeMount(fields[1]), fields[2]
		if pseudoFS[fstype] {
			continue
		}
		if strings.HasPrefix(mp, "/proc") || strings.HasPrefix(mp, "/sys") || strings.HasPrefix(mp, "/dev") ||
			strings.HasPrefix(mp, "/run") || strings.HasPrefix(mp, "/snap") || strings.HasPrefix(mp, "/boot/efi") {
			continue
		}
		out = append(out, mp)
	}
	return out
}

// unescapeMount decodes the octal escapes the kernel uses for spaces,
// tabs, newlines and backslashes in mount points.
func unescapeMount(s string) string {
	r := strings.NewReplacer(`\040`, " ", `\011`, "\t", `\012`, "\n", `\134`, `\`)
	return r.Replace(s)
}

func volume(path string) Root {
	r := Root{Path: path, Label: filepath.Base(path), Kind: KindVolume}
	if path == "/" {
		r.Label = "/"
	}
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err == nil {
		r.TotalBytes = int64(st.Blocks) * int64(st.Bsize)
		r.FreeBytes = int64(st.Bavail) * int64(st.Bsize)
	}
	return r
}
