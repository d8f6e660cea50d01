// Package schedule implements the schedule command, which runs the sync
// pipeline repeatedly on a cron schedule until interrupted.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/datasync/cmd/common"
	"github.com/jonesrussell/datasync/internal/logger"
	"github.com/jonesrussell/datasync/internal/pipeline"
)

// DefaultCronSpec runs the sync daily at 06:00.
const DefaultCronSpec = "0 6 * * *"

// Command returns the schedule command for use in the root command.
func Command() *cobra.Command {
	var cronSpec string
	var runImmediately bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the sync on a recurring cron schedule",
		Long: `Run the incremental sync repeatedly on a cron schedule (standard
5-field format: minute hour day month weekday). The command runs until
interrupted. A fatal error in one run is logged and the schedule keeps
going; only startup errors terminate the command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			if dirErr := deps.Config.EnsureDirectories(); dirErr != nil {
				return fmt.Errorf("failed to prepare directories: %w", dirErr)
			}

			p, err := pipeline.New(deps.Config, deps.Logger)
			if err != nil {
				return fmt.Errorf("failed to construct pipeline: %w", err)
			}

			return runSchedule(cmd.Context(), deps.Logger, p, cronSpec, runImmediately)
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", DefaultCronSpec,
		"Cron expression controlling when syncs run")
	cmd.Flags().BoolVar(&runImmediately, "now", false,
		"Run one sync immediately before the schedule takes over")

	return cmd
}

// runSchedule drives the pipeline from a cron scheduler until the
// context is cancelled or an interrupt arrives.
func runSchedule(
	ctx context.Context,
	log logger.Interface,
	p *pipeline.Pipeline,
	cronSpec string,
	runImmediately bool,
) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Overlapping runs are skipped rather than queued: a slow catalog or
	// large batch must not pile up concurrent syncs on the same state file.
	var running atomic.Bool
	runOnce := func() {
		if !running.CompareAndSwap(false, true) {
			log.Warn("Previous sync still running, skipping this trigger")
			return
		}
		defer running.Store(false)

		summary, runErr := p.Run(ctx)
		if runErr != nil {
			log.Error("Scheduled sync failed", "error", runErr)
			return
		}
		if summary.FailedCount() > 0 {
			log.Warn("Scheduled sync completed with failures",
				"processed", summary.Processed,
				"failed", summary.FailedCount(),
			)
		}
	}

	cronParser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(cronParser), cron.WithChain(cron.Recover(cron.DefaultLogger)))

	entryID, err := c.AddFunc(cronSpec, runOnce)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronSpec, err)
	}

	if runImmediately {
		runOnce()
	}

	c.Start()
	next := c.Entry(entryID).Next
	log.Info("Scheduler started",
		"cron", cronSpec,
		"next_run", next.Format("2006-01-02 15:04:05"),
	)

	<-ctx.Done()
	log.Info("Shutdown signal received, stopping scheduler")

	// Wait for an in-flight run to finish.
	<-c.Stop().Done()

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}
