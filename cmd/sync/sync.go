// Package sync implements the sync command, which executes one
// incremental synchronization run against the configured catalog.
package sync

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/datasync/cmd/common"
	"github.com/jonesrussell/datasync/internal/pipeline"
)

// Command returns the sync command for use in the root command.
func Command() *cobra.Command {
	var topic string
	var maxWorkers int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one incremental sync against the catalog",
		Long: `Fetch the remote dataset catalog, determine which topical datasets
are new or changed since the last run, download them concurrently, and
normalize their column headers.

Per-dataset failures are reported in the run summary and retried on the
next run; they do not abort the batch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			cfg := deps.Config
			syncCfg := cfg.GetSyncConfig()
			if topic != "" {
				syncCfg.Topic = topic
			}
			if maxWorkers > 0 {
				syncCfg.MaxWorkers = maxWorkers
			}

			if dirErr := cfg.EnsureDirectories(); dirErr != nil {
				return fmt.Errorf("failed to prepare directories: %w", dirErr)
			}

			p, err := pipeline.New(cfg, deps.Logger)
			if err != nil {
				return fmt.Errorf("failed to construct pipeline: %w", err)
			}

			summary, runErr := p.Run(cmd.Context())
			if summary != nil {
				common.RenderSummary(summary)
			}
			if runErr != nil {
				return fmt.Errorf("sync failed: %w", runErr)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "",
		"Override the configured topic filter")
	cmd.Flags().IntVar(&maxWorkers, "max-workers", 0,
		"Override the configured worker pool width (0 means use configured value)")

	return cmd
}
