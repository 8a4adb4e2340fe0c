package logging_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/heft/pkg/heft/logging"
)

func initTo(t *testing.T, cfg logging.Config) string {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = filepath.Join(t.TempDir(), "heft.log")
	}
	require.NoError(t, logging.Init(cfg))
	t.Cleanup(func() { _ = logging.Close() })
	return cfg.Path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInit_InvalidLevels(t *testing.T) {
	dir := t.TempDir()

	err := logging.Init(logging.Config{Level: "loud", Path: filepath.Join(dir, "a.log")})
	require.ErrorIs(t, err, logging.ErrInvalidLevel)

	err = logging.Init(logging.Config{
		Level:      "info",
		Path:       filepath.Join(dir, "b.log"),
		Components: map[string]string{"engine": "chatty"},
	})
	require.ErrorIs(t, err, logging.ErrInvalidLevel)

	err = logging.Init(logging.Config{Level: "info", Path: filepath.Join(dir, "c.log"), ConsoleLevel: "nope"})
	require.ErrorIs(t, err, logging.ErrInvalidLevel)
}

func TestGet_ReturnsSameLogger(t *testing.T) {
	a := logging.Get("roots")
	b := logging.Get("roots")
	assert.Same(t, a, b)
	assert.NotSame(t, a, logging.Get("trash"))
}

func TestLoggerBeforeInitIsSilent(t *testing.T) {
	_ = logging.Close()
	assert.NotPanics(t, func() {
		logging.Get("silent").Info("nobody hears this")
	})
}

func TestLoggerPicksUpInitAfterGet(t *testing.T) {
	_ = logging.Close()
	logger := logging.Get("early")
	logger.Info("dropped")

	path := initTo(t, logging.Config{Level: "info"})
	logger.Info("kept", "dirs", 3)

	out := readLog(t, path)
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "dirs=3")
	assert.NotContains(t, out, "dropped")
}

func TestLevels(t *testing.T) {
	path := initTo(t, logging.Config{Level: "warn"})
	logger := logging.Get("levels")

	logger.Debug("debug-line")
	logger.Info("info-line")
	logger.Warn("warn-line")
	logger.Error("error-line")

	out := readLog(t, path)
	assert.NotContains(t, out, "debug-line")
	assert.NotContains(t, out, "info-line")
	assert.Contains(t, out, "warn-line")
	assert.Contains(t, out, "error-line")
}

func TestComponentOverride(t *testing.T) {
	path := initTo(t, logging.Config{
		Level:      "info",
		Components: map[string]string{"engine": "debug", "tui": "error"},
	})

	logging.Get("engine").Debug("engine-debug")
	logging.Get("tui").Warn("tui-warn")
	logging.Get("other").Debug("other-debug")

	out := readLog(t, path)
	assert.Contains(t, out, "engine-debug")
	assert.NotContains(t, out, "tui-warn")
	assert.NotContains(t, out, "other-debug")
}

func TestWithAddsFields(t *testing.T) {
	path := initTo(t, logging.Config{Level: "info"})
	logging.Get("history").With("id", "abc").Info("recorded")

	out := readLog(t, path)
	assert.Contains(t, out, "recorded")
	assert.Contains(t, out, "id=abc")
}

func TestTUIModeFillsBuffer(t *testing.T) {
	initTo(t, logging.Config{Level: "info", TUIMode: true, ConsoleLevel: "debug"})

	buf := logging.Buffer()
	require.NotNil(t, buf)

	logging.Get("tui").Debug("below threshold")
	logging.Get("tui").Info("shown in panel")

	entries := buf.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "shown in panel", entries[0].Message)
	assert.Equal(t, "tui", entries[0].Component)
	assert.Equal(t, logging.LevelInfo, entries[0].Level)
}

func TestBufferAbsentOutsideTUIMode(t *testing.T) {
	initTo(t, logging.Config{Level: "info"})
	assert.Nil(t, logging.Buffer())
}

func TestConcurrentWrites(t *testing.T) {
	path := initTo(t, logging.Config{Level: "info"})

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger := logging.Get("worker")
			for j := range 50 {
				logger.Info("tick", "g", i, "n", j)
			}
		}()
	}
	wg.Wait()

	out := readLog(t, path)
	assert.Contains(t, out, "g=7")
	assert.Contains(t, out, "n=49")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logging.Level
		err  bool
	}{
		{"debug", logging.LevelDebug, false},
		{"INFO", logging.LevelInfo, false},
		{"", logging.LevelInfo, false},
		{"warning", logging.LevelWarn, false},
		{"Error", logging.LevelError, false},
		{"trace", logging.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.in)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "warn", logging.LevelWarn.String())
}

func TestDefaultLogPath(t *testing.T) {
	p := logging.DefaultLogPath()
	assert.Equal(t, "heft.log", filepath.Base(p))
	assert.Equal(t, "heft", filepath.Base(filepath.Dir(p)))
}
