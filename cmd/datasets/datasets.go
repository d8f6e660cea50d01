// Package datasets implements the command-line interface for inspecting
// the remote dataset catalog.
package datasets

import (
	"github.com/spf13/cobra"
)

// Command returns the datasets command for use in the root command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "Inspect the remote dataset catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewListCommand())

	return cmd
}
