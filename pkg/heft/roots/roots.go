// Package roots suggests directories worth scanning: mounted volumes, the
// user's standard folders and cloud-sync folders under the home directory.
package roots

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"

	"github.com/jamesainslie/heft/pkg/heft/logging"
)

var logger = logging.Get("roots")

// Kind classifies a Root.
type Kind string

const (
	KindVolume Kind = "volume"
	KindFolder Kind = "folder"
	KindCloud  Kind = "cloud"
)

// Root is a scan candidate.
type Root struct {
	Path       string `json:"path" yaml:"path"`
	Label      string `json:"label" yaml:"label"`
	Kind       Kind   `json:"kind" yaml:"kind"`
	TotalBytes int64  `json:"total_bytes,omitempty" yaml:"total_bytes,omitempty"`
	FreeBytes  int64  `json:"free_bytes,omitempty" yaml:"free_bytes,omitempty"`
}

// UsedBytes returns the bytes in use on the volume, or zero when unknown.
func (r Root) UsedBytes() int64 {
	return r.TotalBytes - r.FreeBytes
}

// UsedPercent returns how full the volume is.
func (r Root) UsedPercent() float64 {
	if r.TotalBytes == 0 {
		return 0
	}
	return float64(r.UsedBytes()) / float64(r.TotalBytes) * 100
}

// cloudFolders are looked up directly under the home directory. Entries
// with a wildcard are globbed.
var cloudFolders = []string{
	"OneDrive*",
	"Dropbox",
	"Google Drive",
	"iCloud Drive",
	filepath.Join("Library", "Mobile Documents", "com~apple~CloudDocs"),
	filepath.Join("Library", "CloudStorage", "*"),
}

// Discoverer gathers roots. Its sources can be replaced in tests.
type Discoverer struct {
	Volumes  func() []Root
	Home     string
	UserDirs []string
}

// NewDiscoverer returns a Discoverer for the current user and platform.
func NewDiscoverer() *Discoverer {
	home, _ := os.UserHomeDir()
	return &Discoverer{
		Volumes: platformVolumes,
		Home:    home,
		UserDirs: []string{
			xdg.UserDirs.Desktop,
			xdg.UserDirs.Download,
			xdg.UserDirs.Documents,
			xdg.UserDirs.Pictures,
			xdg.UserDirs.Videos,
			xdg.UserDirs.Music,
		},
	}
}

// Discover returns existing roots in the order volumes, user folders, cloud
// folders, with duplicates removed.
func Discover() []Root {
	return NewDiscoverer().Discover()
}

// Discover returns existing roots, volumes first.
func (d *Discoverer) Discover() []Root {
	var found []Root
	if d.Volumes != nil {
		found = append(found, d.Volumes()...)
	}

	for _, dir := range d.UserDirs {
		if dir == "" || dir == d.Home || !isDir(dir) {
			continue
		}
		found = append(found, Root{Path: dir, Label: filepath.Base(dir), Kind: KindFolder})
	}

	if d.Home != "" {
		for _, pattern := range cloudFolders {
			matches, err := filepath.Glob(filepath.Join(d.Home, pattern))
			if err != nil {
				continue
			}
			slices.Sort(matches)
			for _, m := range matches {
				if isDir(m) {
					found = append(found, Root{Path: m, Label: filepath.Base(m), Kind: KindCloud})
				}
			}
		}
	}

	out := Dedupe(found)
	logger.Debug("discovered roots", "count", len(out))
	return out
}

// Dedupe drops later roots whose path was already seen, keeping order.
func Dedupe(in []Root) []Root {
	seen := make(map[string]struct{}, len(in))
	out := make([]Root, 0, len(in))
	for _, r := range in {
		key := filepath.Clean(r.Path)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Paths returns just the paths of roots.
func Paths(rs []Root) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Path
	}
	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
