// Package types provides the data types shared by the heft engine, its
// output formatters and the TUI, along with helpers for parsing and
// formatting byte sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// Entry pairs a path with a byte size. It is used both for ranked files
// and for directory aggregates.
type Entry struct {
	// Path is the path as observed during traversal.
	Path string `json:"path" yaml:"path"`

	// Size is the size in bytes.
	Size int64 `json:"size" yaml:"size"`
}

// HumanSize returns the entry size in IEC units.
func (e Entry) HumanSize() string {
	return FormatSize(e.Size)
}

// Report is the final result of a scan as consumed by the output formatters.
type Report struct {
	// Root is the directory the scan started from.
	Root string `json:"root" yaml:"root"`

	// Outcome is "completed" or "stopped".
	Outcome string `json:"outcome" yaml:"outcome"`

	// ScannedDirs is the number of distinct directories processed.
	ScannedDirs int64 `json:"scanned_dirs" yaml:"scanned_dirs"`

	// ScannedFiles is the number of regular files counted.
	ScannedFiles int64 `json:"scanned_files" yaml:"scanned_files"`

	// TopDirs holds directories by the sum of their direct children, largest first.
	TopDirs []Entry `json:"top_dirs" yaml:"top_dirs"`

	// TopFiles holds the largest files seen, largest first.
	TopFiles []Entry `json:"top_files" yaml:"top_files"`

	// Elapsed is the wall time of the scan.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string such as "512", "100K",
// "50MB" or "1.5GiB" and returns the size in bytes. Units are binary.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	unit := strings.ToUpper(m[2])
	unit = strings.TrimSuffix(unit, "IB")
	unit = strings.TrimSuffix(unit, "B")

	var multiplier int64
	switch unit {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, unit)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a string in IEC units,
// e.g. "1.0 KiB" or "1.5 MiB".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatSizeCompact renders sizes the way the result lists show them:
// whole bytes below one MiB, otherwise two decimals in MB or GB.
//
//	FormatSizeCompact(1023)       // "1023 B"
//	FormatSizeCompact(5 * MiB)    // "5.00 MB"
//	FormatSizeCompact(3 * GiB/2)  // "1.50 GB"
func FormatSizeCompact(bytes int64) string {
	switch {
	case bytes >= GiB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GiB))
	case bytes >= MiB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MiB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
