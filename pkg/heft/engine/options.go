package engine

import (
	"errors"
	"fmt"
)

// Defaults applied by DefaultConfig and by the config layer.
const (
	DefaultMaxResults      = 25
	DefaultUpdateEveryDirs = 25

	// MinMaxResults is the smallest K the config layer will hand to the engine.
	MinMaxResults = 5
)

// ErrInvalidConfig is wrapped by Config.Validate failures.
var ErrInvalidConfig = errors.New("invalid engine config")

// Config is the immutable input of a single scan.
type Config struct {
	// Root is the directory to traverse.
	Root string

	// MaxResults caps the number of files and directories in a snapshot.
	MaxResults int

	// UpdateEveryDirs is the number of processed directories between
	// intermediate snapshots.
	UpdateEveryDirs int
}

// DefaultConfig returns a config for root with the default limits.
func DefaultConfig(root string) Config {
	return Config{
		Root:            root,
		MaxResults:      DefaultMaxResults,
		UpdateEveryDirs: DefaultUpdateEveryDirs,
	}
}

// Validate reports values the engine cannot work with. Run itself does not
// call it; callers normalise input first.
func (c Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("%w: root is empty", ErrInvalidConfig)
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("%w: max results must be positive, got %d", ErrInvalidConfig, c.MaxResults)
	}
	if c.UpdateEveryDirs < 1 {
		return fmt.Errorf("%w: update interval must be positive, got %d", ErrInvalidConfig, c.UpdateEveryDirs)
	}
	return nil
}
