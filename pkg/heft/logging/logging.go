// Package logging wires charmbracelet/log into heft. Every component asks
// for a named logger with Get; output goes nowhere until Init is called,
// after which records land in a rotating file, optionally on stderr, and
// in an in-memory ring for the TUI log panel.
//
//	if err := logging.Init(logging.DefaultConfig()); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	log := logging.Get("engine")
//	log.Debug("scan finished", "dirs", 12)
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// Level is a log severity.
type Level int

// Levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

func (l Level) charm() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ErrInvalidLevel is returned for an unknown level name.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses debug, info, warn (or warning) and error, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// Config configures the logging system.
type Config struct {
	// Level is the default level for every component.
	Level string

	// Path is the log file. Empty means DefaultLogPath().
	Path string

	// Rotation controls when the log file is rolled over.
	Rotation RotationConfig

	// Components overrides Level per component name.
	Components map[string]string

	// ConsoleLevel mirrors records at or above this level to stderr.
	// Empty disables the console sink.
	ConsoleLevel string

	// TUIMode disables the console sink and keeps recent records in a
	// LogBuffer instead.
	TUIMode bool
}

// DefaultLogPath returns $XDG_STATE_HOME/heft/heft.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "heft", "heft.log")
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Level:    "info",
		Path:     DefaultLogPath(),
		Rotation: DefaultRotationConfig(),
	}
}

// Entry is a record kept for the TUI log panel.
type Entry struct {
	Time      time.Time
	Level     Level
	Component string
	Message   string
}

type state struct {
	mu         sync.RWMutex
	gen        uint64
	writer     *RotatingWriter
	level      Level
	components map[string]Level
	console    bool
	consoleLvl Level
	buffer     *LogBuffer
	loggers    map[string]*Logger
}

var global = &state{
	components: make(map[string]Level),
	loggers:    make(map[string]*Logger),
}

// Init (re)configures logging. Loggers obtained from Get before Init pick up
// the new sinks on their next call.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	components := make(map[string]Level, len(cfg.Components))
	for name, lvl := range cfg.Components {
		parsed, err := ParseLevel(lvl)
		if err != nil {
			return fmt.Errorf("parsing level for component %s: %w", name, err)
		}
		components[name] = parsed
	}

	var consoleLvl Level
	console := cfg.ConsoleLevel != "" && !cfg.TUIMode
	if console {
		if consoleLvl, err = ParseLevel(cfg.ConsoleLevel); err != nil {
			return fmt.Errorf("parsing console level: %w", err)
		}
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}
	writer, err := NewRotatingWriter(path, cfg.Rotation)
	if err != nil {
		return fmt.Errorf("creating log writer: %w", err)
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if global.writer != nil {
		_ = global.writer.Close()
	}
	global.writer = writer
	global.level = level
	global.components = components
	global.console = console
	global.consoleLvl = consoleLvl
	global.buffer = nil
	if cfg.TUIMode {
		global.buffer = NewLogBuffer(DefaultBufferSize)
	}
	global.gen++

	return nil
}

// Close flushes and closes the log file. Loggers fall back to discarding.
func Close() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.writer == nil {
		return nil
	}
	err := global.writer.Close()
	global.writer = nil
	global.buffer = nil
	global.console = false
	global.components = make(map[string]Level)
	global.gen++
	if err != nil {
		return fmt.Errorf("closing log writer: %w", err)
	}
	return nil
}

// Buffer returns the TUI ring buffer, or nil outside TUI mode.
func Buffer() *LogBuffer {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.buffer
}

// Get returns the logger for a component. The same pointer is returned for
// the same name, so packages may hold it in a package-level variable.
func Get(component string) *Logger {
	global.mu.RLock()
	l, ok := global.loggers[component]
	global.mu.RUnlock()
	if ok {
		return l
	}

	global.mu.Lock()
	defer global.mu.Unlock()
	if l, ok := global.loggers[component]; ok {
		return l
	}
	l = &Logger{component: component}
	global.loggers[component] = l
	return l
}

// Logger is a component-scoped logger.
type Logger struct {
	component string
	fields    []interface{}

	mu      sync.Mutex
	gen     uint64
	built   bool
	file    *log.Logger
	console *log.Logger
}

// With returns a child logger that adds the key/value pairs to every record.
func (l *Logger) With(args ...interface{}) *Logger {
	fields := make([]interface{}, 0, len(l.fields)+len(args))
	fields = append(fields, l.fields...)
	fields = append(fields, args...)
	return &Logger{component: l.component, fields: fields}
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log(LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log(LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log(LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log(LevelError, msg, args) }

func (l *Logger) log(level Level, msg string, args []interface{}) {
	file, console, buffer := l.sinks()

	emit(file, level, msg, args)
	if console != nil {
		emit(console, level, msg, args)
	}
	if buffer != nil && level >= l.threshold() {
		buffer.Add(Entry{Time: time.Now(), Level: level, Component: l.component, Message: msg})
	}
}

func (l *Logger) threshold() Level {
	global.mu.RLock()
	defer global.mu.RUnlock()
	if lvl, ok := global.components[l.component]; ok {
		return lvl
	}
	return global.level
}

// sinks rebuilds the underlying charm loggers when Init or Close ran since
// the last call.
func (l *Logger) sinks() (*log.Logger, *log.Logger, *LogBuffer) {
	global.mu.RLock()
	defer global.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.built && l.gen == global.gen {
		return l.file, l.console, global.buffer
	}

	level := global.level
	if lvl, ok := global.components[l.component]; ok {
		level = lvl
	}

	var out io.Writer = io.Discard
	if global.writer != nil {
		out = global.writer
	}
	l.file = log.NewWithOptions(out, log.Options{
		Level:           level.charm(),
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          l.component,
	}).With(l.fields...)

	l.console = nil
	if global.console {
		l.console = log.NewWithOptions(os.Stderr, log.Options{
			Level:           global.consoleLvl.charm(),
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Prefix:          l.component,
		}).With(l.fields...)
	}

	l.gen = global.gen
	l.built = true
	return l.file, l.console, global.buffer
}

func emit(logger *log.Logger, level Level, msg string, args []interface{}) {
	switch level {
	case LevelDebug:
		logger.Debug(msg, args...)
	case LevelInfo:
		logger.Info(msg, args...)
	case LevelWarn:
		logger.Warn(msg, args...)
	case LevelError:
		logger.Error(msg, args...)
	}
}
