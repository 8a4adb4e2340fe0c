package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/heft/pkg/heft/roots"
	"github.com/jamesainslie/heft/pkg/heft/types"
)

var rootsJSON bool

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "List scan candidates",
	Long: heredoc.Doc(`
		List the places heft offers in the interactive root picker:
		mounted volumes, the usual user folders (Desktop, Downloads, Documents,
		Pictures, Videos, Music) and cloud-sync folders under your home directory.
		Only paths that exist are shown.
	`),
	Args: cobra.NoArgs,
	RunE: runRoots,
}

func init() {
	rootsCmd.Flags().BoolVar(&rootsJSON, "json", false, "print JSON")
	rootCmd.AddCommand(rootsCmd)
}

func runRoots(cmd *cobra.Command, _ []string) error {
	list := roots.Discover()
	if rootsJSON {
		return writeRootsJSON(os.Stdout, list)
	}
	return writeRoots(os.Stdout, list)
}

func writeRootsJSON(w io.Writer, list []roots.Root) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}

func writeRoots(w io.Writer, list []roots.Root) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tLABEL\tUSED\tSIZE\tPATH")
	for _, r := range list {
		used, size := "-", "-"
		if r.TotalBytes > 0 {
			used = fmt.Sprintf("%.0f%%", r.UsedPercent())
			size = types.FormatSize(r.TotalBytes)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Kind, r.Label, used, size, r.Path)
	}
	return tw.Flush()
}
