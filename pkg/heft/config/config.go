package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jamesainslie/heft/pkg/heft/engine"
	"github.com/jamesainslie/heft/pkg/heft/logging"
	"github.com/jamesainslie/heft/pkg/heft/types"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size" yaml:"max_size"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	Daily      bool   `mapstructure:"daily" yaml:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level" yaml:"level"`
	Path       string            `mapstructure:"path" yaml:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation" yaml:"rotation"`
	Components map[string]string `mapstructure:"components" yaml:"components"`
}

// HistoryConfig configures the trash history store.
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled" yaml:"enabled"`
	Path          string `mapstructure:"path" yaml:"path"`
	RetentionDays int    `mapstructure:"retention_days" yaml:"retention_days"`
}

// TrashConfig configures the delete action.
type TrashConfig struct {
	Confirm bool `mapstructure:"confirm" yaml:"confirm"`
}

// Config is the effective heft configuration.
type Config struct {
	DefaultPath     string        `mapstructure:"default_path" yaml:"default_path"`
	MaxResults      int           `mapstructure:"max_results" yaml:"max_results"`
	UpdateEveryDirs int           `mapstructure:"update_every_dirs" yaml:"update_every_dirs"`
	Include         []string      `mapstructure:"include" yaml:"include"`
	Exclude         []string      `mapstructure:"exclude" yaml:"exclude"`
	History         HistoryConfig `mapstructure:"history" yaml:"history"`
	Trash           TrashConfig   `mapstructure:"trash" yaml:"trash"`
	Logging         LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// SetDefaults registers every key with its default so that environment
// variables are honoured for all of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("default_path", DefaultPath)
	v.SetDefault("max_results", DefaultMaxResults)
	v.SetDefault("update_every_dirs", DefaultUpdateEveryDirs)
	v.SetDefault("include", []string{})
	v.SetDefault("exclude", []string{})

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", DefaultHistoryPath())
	v.SetDefault("history.retention_days", DefaultRetentionDays)

	v.SetDefault("trash.confirm", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", DefaultComponentLevels)
}

// Prepare points v at the config file (explicit, or the default search
// path) and enables HEFT_ environment overrides.
func Prepare(v *viper.Viper, file string) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
}

// Load reads the config file into v (a missing file is fine), then decodes
// and normalises the result.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	var err error
	if cfg.History.Path, err = ExpandPath(cfg.History.Path); err != nil {
		return nil, err
	}
	if cfg.Logging.Path, err = ExpandPath(cfg.Logging.Path); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Normalize clamps numeric settings into the range the engine accepts.
func (c *Config) Normalize() {
	if c.MaxResults < MinMaxResults {
		c.MaxResults = MinMaxResults
	}
	if c.UpdateEveryDirs < 1 {
		c.UpdateEveryDirs = 1
	}
	if c.DefaultPath == "" {
		c.DefaultPath = DefaultPath
	}
}

// Engine builds the engine input for a scan of root.
func (c *Config) Engine(root string) engine.Config {
	if root == "" {
		root = c.DefaultPath
	}
	return engine.Config{
		Root:            root,
		MaxResults:      c.MaxResults,
		UpdateEveryDirs: c.UpdateEveryDirs,
	}
}

// LoggingSetup converts the logging section into a logging.Config.
func (c *Config) LoggingSetup() (logging.Config, error) {
	maxSize := int64(0)
	if s := c.Logging.Rotation.MaxSize; s != "" {
		n, err := types.ParseSize(s)
		if err != nil {
			return logging.Config{}, fmt.Errorf("logging.rotation.max_size: %w", err)
		}
		maxSize = n
	}
	return logging.Config{
		Level: c.Logging.Level,
		Path:  c.Logging.Path,
		Rotation: logging.RotationConfig{
			MaxSize:    maxSize,
			MaxAge:     c.Logging.Rotation.MaxAge,
			MaxBackups: c.Logging.Rotation.MaxBackups,
			Daily:      c.Logging.Rotation.Daily,
		},
		Components: c.Logging.Components,
	}, nil
}

// ClampMaxResults turns free-form user input into a usable K: anything that
// is not a whole number becomes DefaultMaxResults, and small values are
// raised to MinMaxResults.
func ClampMaxResults(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultMaxResults
	}
	return max(n, MinMaxResults)
}

// Dir returns the directory holding config.yaml.
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// DataDir returns $XDG_DATA_HOME/heft.
func DataDir() string {
	return filepath.Join(xdg.DataHome, appName)
}

// DefaultHistoryPath returns the Badger directory for trash history.
func DefaultHistoryPath() string {
	return filepath.Join(DataDir(), "history")
}

// ExpandPath replaces a leading ~ with the home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
