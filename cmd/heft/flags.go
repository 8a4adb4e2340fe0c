package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/heft/pkg/heft/config"
	"github.com/jamesainslie/heft/pkg/heft/filter"
	"github.com/jamesainslie/heft/pkg/heft/types"
)

// buildFilter creates the display filter from --include, --exclude and
// --min-size, merged with the include/exclude lists of the config file.
func buildFilter() (*filter.Filter, error) {
	opts := []filter.Option{
		filter.WithInclude(viper.GetStringSlice("include")...),
		filter.WithExclude(viper.GetStringSlice("exclude")...),
	}

	if s := viper.GetString("min_size"); s != "" {
		n, err := types.ParseSize(s)
		if err != nil {
			return nil, fmt.Errorf("invalid min-size %q: %w", s, err)
		}
		opts = append(opts, filter.WithMinSize(n))
	}

	return filter.New(opts...)
}

// applyScanFlags overlays the scan tuning flags onto cfg. --max-results is
// taken as free text and clamped, like the interactive field.
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("max-results") {
		raw, _ := flags.GetString("max-results")
		cfg.MaxResults = config.ClampMaxResults(raw)
	}
	if flags.Changed("update-every") {
		n, _ := flags.GetInt("update-every")
		cfg.UpdateEveryDirs = max(n, 1)
	}
}

// resolveRoot picks the scan root from the argument or the configured
// default and makes it absolute. Either one is refused here when it is not
// a directory; the engine itself would quietly report an empty scan.
func resolveRoot(args []string, cfg *config.Config) (root string, explicit bool, err error) {
	root = cfg.DefaultPath
	if len(args) > 0 {
		root, explicit = args[0], true
	}

	root, err = config.ExpandPath(root)
	if err != nil {
		return "", explicit, err
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return "", explicit, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", explicit, fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", explicit, fmt.Errorf("not a directory: %s", root)
	}
	return root, explicit, nil
}
