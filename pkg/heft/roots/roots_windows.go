//go:build windows

package roots

import (
	"golang.org/x/sys/windows"
)

func platformVolumes() []Root {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		logger.Debug("cannot list drives", "err", err)
		return nil
	}

	var out []Root
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		letter := string(rune('A' + i))
		path := letter + `:\`
		r := Root{Path: path, Label: letter + ":", Kind: KindVolume}

		p, err := windows.UTF16PtrFromString(path)
		if err != nil {
			continue
		}
		var free, total, totalFree uint64
		if err := windows.GetDiskFreeSpaceEx(p, &free, &total, &totalFree); err != nil {
			continue
		}
		r.TotalBytes = int64(total)
		r.FreeBytes = int64(free)
		out = append(out, r)
	}
	return out
}
