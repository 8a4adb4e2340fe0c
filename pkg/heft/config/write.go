package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultFile = `# heft configuration

# Directory scanned when no path is given.
default_path: %q

# Number of files and directories kept in each ranking (minimum 5).
max_results: %d

# Directories processed between progress updates.
update_every_dirs: %d

# Glob patterns applied to the displayed rankings. The scan itself is never filtered.
include: []
exclude: []

history:
  enabled: true
  path: %q
  retention_days: %d

trash:
  # Ask before moving a file to the trash.
  confirm: true

logging:
  # debug, info, warn or error
  level: info
  # Empty means $XDG_STATE_HOME/heft/heft.log
  path: ""
  rotation:
    max_size: 10MB
    max_age: 30
    max_backups: 5
    daily: true
  components:
    engine: info
    tui: info
    trash: info
    history: info
    roots: warn
    watcher: warn
`

// WriteDefault writes a commented config.yaml into Dir() unless one is
// already there. It returns the file path and whether it was created.
func WriteDefault() (string, bool, error) {
	dir, err := Dir()
	if err != nil {
		return "", false, err
	}
	path := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("checking config file: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating config directory: %w", err)
	}

	body := fmt.Sprintf(defaultFile, DefaultPath, DefaultMaxResults, DefaultUpdateEveryDirs, DefaultHistoryPath(), DefaultRetentionDays)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", false, fmt.Errorf("writing config file: %w", err)
	}
	return path, true, nil
}
