package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/heft/pkg/heft/config"
	"github.com/jamesainslie/heft/pkg/heft/logging"
	"github.com/jamesainslie/heft/pkg/heft/output"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "heft [path]",
		Short: "Find the directories and files taking up disk space",
		Long: heredoc.Doc(`
			heft walks a directory tree breadth-first and keeps two live rankings:
			the largest files, and the directories whose direct children weigh the most.

			By default heft opens an interactive view where you can pick a root,
			watch the rankings fill in, open or reveal entries and move files to the trash.
			Use --no-interactive (or any --output format) to print a report instead.
		`),
		Example: heredoc.Doc(`
			heft                          # pick a root interactively
			heft ~/Downloads              # scan a directory
			heft -n -o json /data         # print a JSON report
			heft -n --include '*.iso' ~   # only show ISO images in the report
			heft roots                    # list scan candidates
			heft formats                  # list report formats
			heft history                  # files moved to the trash
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScan,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ~/.config/heft/config.yaml)")
	flags.BoolP("quiet", "q", false, "minimal output")
	flags.BoolP("verbose", "v", false, "debug output")

	local := rootCmd.Flags()
	local.BoolP("no-interactive", "n", false, "print a report instead of opening the interactive view")
	local.StringP("output", "o", "", "report format: "+strings.Join(output.Available(), ", "))
	local.String("max-results", "", fmt.Sprintf("entries kept in each ranking (minimum %d)", config.MinMaxResults))
	local.Int("update-every", 0, "directories processed between progress updates")
	local.StringSliceP("include", "i", nil, "only show entries matching these globs")
	local.StringSliceP("exclude", "e", nil, "hide entries matching these globs")
	local.StringP("min-size", "s", "", "hide entries smaller than this (e.g. 100M, 1G)")

	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("no_interactive", local.Lookup("no-interactive"))
	_ = viper.BindPFlag("output", local.Lookup("output"))
	_ = viper.BindPFlag("include", local.Lookup("include"))
	_ = viper.BindPFlag("exclude", local.Lookup("exclude"))
	_ = viper.BindPFlag("min_size", local.Lookup("min-size"))
}

// initConfig points viper at the config file and environment.
func initConfig() {
	config.Prepare(viper.GetViper(), cfgFile)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		return err
	}
	return nil
}

// loadConfig decodes the effective configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// setupLogging starts file logging. In TUI mode records go to the in-memory
// buffer instead of stderr.
func setupLogging(cfg *config.Config, tuiMode bool) error {
	lc, err := cfg.LoggingSetup()
	if err != nil {
		return err
	}
	if getVerbose() {
		lc.Level = "debug"
		lc.ConsoleLevel = "debug"
	}
	lc.TUIMode = tuiMode
	if err := logging.Init(lc); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	return nil
}

func getVerbose() bool {
	return viper.GetBool("verbose")
}

func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a status message to stderr unless quiet.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
