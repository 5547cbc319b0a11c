package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "rfm",
		Short:   "RFM customer segmentation from order exports",
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newSegmentCommand())

	return rootCmd
}
