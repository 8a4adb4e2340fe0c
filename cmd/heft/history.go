package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/heft/pkg/heft/config"
	"github.com/jamesainslie/heft/pkg/heft/history"
	"github.com/jamesainslie/heft/pkg/heft/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show files moved to the trash",
	Long: heredoc.Doc(`
		Show the files heft has moved to the trash, newest first.

		heft never deletes permanently; every entry here can be restored
		from your desktop's trash or recycle bin.
	`),
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Forget old history entries",
	Long:  `Remove history entries older than history.retention_days (or --days).`,
	Args:  cobra.NoArgs,
	RunE:  runHistoryClean,
}

var (
	historyLimit int
	historyDays  int
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show (0 = all)")
	historyCleanCmd.Flags().IntVar(&historyDays, "days", 0, "override the retention period")

	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistory opens the configured store.
func openHistory() (*history.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	return store, cfg, nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	store, _, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}
	if len(records) == 0 {
		printInfo("Nothing has been moved to the trash yet.")
		return nil
	}

	count, bytes, err := store.Totals()
	if err != nil {
		return fmt.Errorf("summing history: %w", err)
	}

	if err := writeHistory(os.Stdout, records); err != nil {
		return err
	}
	printInfo("\n%d of %d entries shown, %s trashed in total.", len(records), count, types.FormatSize(bytes))
	return nil
}

func writeHistory(w io.Writer, records []history.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSIZE\tMETHOD\tPATH")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			r.Time.Local().Format("2006-01-02 15:04"),
			types.FormatSize(r.Size), r.Method, r.Path)
	}
	return tw.Flush()
}

func runHistoryClean(cmd *cobra.Command, _ []string) error {
	store, cfg, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	days := cfg.History.RetentionDays
	if historyDays > 0 {
		days = historyDays
	}
	if days <= 0 {
		days = config.DefaultRetentionDays
	}

	n, err := store.PruneDays(days)
	if err != nil {
		return fmt.Errorf("cleaning history: %w", err)
	}
	printInfo("Removed %d entries older than %d days.", n, days)
	return nil
}
