// Package cli holds the goeda command line: the HTTP server and an offline
// profiler for local files.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the goeda command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "goeda",
		Short:         "Exploratory analysis of CSV and TSV files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newProfileCmd())

	return root
}
