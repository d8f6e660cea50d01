// Package datasets implements the command-line interface for inspecting
// the remote dataset catalog. This file contains the list command that
// displays topical catalog entries in a formatted table.
package datasets

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/datasync/cmd/common"
	"github.com/jonesrussell/datasync/internal/catalog"
	"github.com/jonesrussell/datasync/internal/logger"
)

// TableRenderer handles the display of catalog entries in a table format
type TableRenderer struct {
	logger logger.Interface
}

// NewTableRenderer creates a new TableRenderer instance
func NewTableRenderer(log logger.Interface) *TableRenderer {
	return &TableRenderer{
		logger: log,
	}
}

// RenderTable formats and displays catalog entries in a table format
func (r *TableRenderer) RenderTable(datasets []catalog.Dataset) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Identifier", "Title", "Modified", "Distributions"})

	for i := range datasets {
		t.AppendRow(table.Row{
			datasets[i].Identifier,
			datasets[i].Title,
			datasets[i].Modified,
			len(datasets[i].DownloadURLs),
		})
	}

	t.Render()
	return nil
}

// Lister fetches and displays topical catalog entries
type Lister struct {
	client   *catalog.Client
	filter   *catalog.Filter
	topic    string
	showAll  bool
	logger   logger.Interface
	renderer *TableRenderer
}

// Start begins the list operation
func (l *Lister) Start(ctx context.Context) error {
	all, err := l.client.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	datasets := all
	if !l.showAll {
		datasets = l.filter.Relevant(all, l.topic)
	}

	if len(datasets) == 0 {
		l.logger.Info("No datasets matched", "topic", l.topic)
		return nil
	}

	return l.renderer.RenderTable(datasets)
}

// NewListCommand creates a new list command
func NewListCommand() *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog datasets matching the topic filter",
		Long:  `Fetch the remote catalog and list the datasets matching the configured topic filter.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			syncCfg := deps.Config.GetSyncConfig()
			lister := &Lister{
				client: catalog.NewClient(syncCfg.CatalogURL, deps.Logger,
					catalog.WithTimeout(syncCfg.RequestTimeout)),
				filter:   catalog.NewFilter(deps.Logger),
				topic:    syncCfg.Topic,
				showAll:  showAll,
				logger:   deps.Logger,
				renderer: NewTableRenderer(deps.Logger),
			}

			return lister.Start(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false,
		"List every catalog entry, not just topic matches")

	return cmd
}
