package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/heft/pkg/heft/config"
	"github.com/jamesainslie/heft/pkg/heft/types"
)

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name    string
		setup   func()
		want    string
		keep    []types.Entry
		drop    []types.Entry
		wantErr bool
	}{
		{
			name:  "no flags",
			setup: func() {},
			want:  "",
			keep:  []types.Entry{{Path: "/a/b.txt", Size: 1}},
		},
		{
			name: "include and min size",
			setup: func() {
				viper.Set("include", []string{"*.iso"})
				viper.Set("min_size", "1M")
			},
			want: "+*.iso >=1.0 MiB",
			keep: []types.Entry{{Path: "/dl/disk.iso", Size: 2 * types.MiB}},
			drop: []types.Entry{
				{Path: "/dl/disk.iso", Size: 10},
				{Path: "/dl/movie.mkv", Size: 2 * types.MiB},
			},
		},
		{
			name: "exclude",
			setup: func() {
				viper.Set("exclude", []string{"**/node_modules/**"})
			},
			keep: []types.Entry{{Path: "/src/app/main.go", Size: 1}},
			drop: []types.Entry{{Path: "/src/app/node_modules/x.js", Size: 1}},
			want: "-**/node_modules/**",
		},
		{
			name: "bad min size",
			setup: func() {
				viper.Set("min_size", "huge")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			tt.setup()

			f, err := buildFilter()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid min-size")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.String())
			for _, e := range tt.keep {
				assert.True(t, f.Match(e), "expected %s to pass", e.Path)
			}
			for _, e := range tt.drop {
				assert.False(t, f.Match(e), "expected %s to be filtered", e.Path)
			}
		})
	}
}

func scanFlagsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("max-results", "", "")
	cmd.Flags().Int("update-every", 0, "")
	return cmd
}

func TestApplyScanFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        map[string]string
		wantMax     int
		wantUpdates int
	}{
		{name: "untouched", args: nil, wantMax: 40, wantUpdates: 7},
		{name: "valid max", args: map[string]string{"max-results": "100"}, wantMax: 100, wantUpdates: 7},
		{name: "small max raised", args: map[string]string{"max-results": "1"}, wantMax: config.MinMaxResults, wantUpdates: 7},
		{name: "garbage max", args: map[string]string{"max-results": "lots"}, wantMax: config.DefaultMaxResults, wantUpdates: 7},
		{name: "update every", args: map[string]string{"update-every": "3"}, wantMax: 40, wantUpdates: 3},
		{name: "update every zero", args: map[string]string{"update-every": "0"}, wantMax: 40, wantUpdates: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := scanFlagsCmd()
			for k, v := range tt.args {
				require.NoError(t, cmd.Flags().Set(k, v))
			}
			cfg := &config.Config{MaxResults: 40, UpdateEveryDirs: 7}

			applyScanFlags(cmd, cfg)

			assert.Equal(t, tt.wantMax, cfg.MaxResults)
			assert.Equal(t, tt.wantUpdates, cfg.UpdateEveryDirs)
		})
	}
}

func TestResolveRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	cfg := &config.Config{DefaultPath: dir}

	root, explicit, err := resolveRoot(nil, cfg)
	require.NoError(t, err)
	assert.False(t, explicit)
	assert.Equal(t, dir, root)

	root, explicit, err = resolveRoot([]string{dir}, &config.Config{DefaultPath: "/nonexistent"})
	require.NoError(t, err)
	assert.True(t, explicit)
	assert.Equal(t, dir, root)

	_, explicit, err = resolveRoot([]string{file}, cfg)
	require.Error(t, err)
	assert.True(t, explicit)
	assert.Contains(t, err.Error(), "not a directory")

	_, _, err = resolveRoot([]string{filepath.Join(dir, "missing")}, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveRoot_DefaultMustBeDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, explicit, err := resolveRoot(nil, &config.Config{DefaultPath: file})
	require.Error(t, err)
	assert.False(t, explicit)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestResolveRoot_Relative(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	root, _, err := resolveRoot([]string{"."}, &config.Config{})
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, filepath.IsAbs(root))
}
