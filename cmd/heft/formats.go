package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/heft/pkg/heft/output"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List report formats for --output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeFormats(cmd.OutOrStdout(), output.Formats())
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func writeFormats(w io.Writer, formats []output.Format) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range formats {
		def := ""
		if f.Name == defaultFormat {
			def = " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s%s\n", f.Name, f.Description, def)
	}
	return tw.Flush()
}
