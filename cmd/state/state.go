// Package state implements the command-line interface for inspecting
// the persisted sync state.
package state

import (
	"github.com/spf13/cobra"
)

// Command returns the state command for use in the root command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect the persisted sync state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewShowCommand())

	return cmd
}
