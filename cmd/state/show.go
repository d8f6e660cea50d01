package state

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/datasync/cmd/common"
	"github.com/jonesrussell/datasync/internal/state"
)

// NewShowCommand creates a new show command
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the datasets tracked in the persisted state",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			store := state.NewStore(deps.Config.GetSyncConfig().StateFile, deps.Logger)
			st, err := store.Load()
			if err != nil {
				return fmt.Errorf("failed to load state: %w", err)
			}

			if st.Len() == 0 {
				deps.Logger.Info("No datasets tracked yet")
				return nil
			}

			identifiers := make([]string, 0, st.Len())
			for identifier := range st.Files {
				identifiers = append(identifiers, identifier)
			}
			sort.Strings(identifiers)

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			if !st.LastRun.IsZero() {
				t.SetTitle("Last run: " + st.LastRun.Format("2006-01-02 15:04:05"))
			}
			t.AppendHeader(table.Row{"Identifier", "Last synced marker"})
			for _, identifier := range identifiers {
				t.AppendRow(table.Row{identifier, st.Files[identifier]})
			}
			t.Render()

			return nil
		},
	}
}
