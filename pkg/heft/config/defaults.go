// Package config loads heft settings from the config file, HEFT_
// environment variables and command-line flags, in increasing order of
// precedence.
package config

// Defaults.
const (
	// DefaultPath is scanned when no root is given.
	DefaultPath = "."

	// DefaultMaxResults is the K of the file and directory rankings.
	DefaultMaxResults = 25

	// MinMaxResults is the smallest accepted K.
	MinMaxResults = 5

	// DefaultUpdateEveryDirs is the number of directories between snapshots.
	DefaultUpdateEveryDirs = 25

	// DefaultRetentionDays bounds how long trash history is kept.
	DefaultRetentionDays = 30

	// EnvPrefix prefixes every environment override, e.g. HEFT_MAX_RESULTS.
	EnvPrefix = "HEFT"

	appName = "heft"
)

// DefaultComponentLevels seeds logging.components.
var DefaultComponentLevels = map[string]string{
	"engine":  "info",
	"tui":     "info",
	"trash":   "info",
	"history": "info",
	"roots":   "warn",
	"watcher": "warn",
}
