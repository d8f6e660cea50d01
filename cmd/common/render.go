package common

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/datasync/internal/pipeline"
)

// timeRounding trims sub-millisecond noise from displayed durations.
const timeRounding = time.Millisecond

// RenderSummary prints a run summary as a table, followed by any
// per-dataset failures and a sample of header transformations.
func RenderSummary(summary *pipeline.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Sync run " + summary.RunID)

	t.AppendRow(table.Row{"Fetched", summary.Fetched})
	t.AppendRow(table.Row{"Matched topic", summary.Filtered})
	t.AppendRow(table.Row{"New or changed", summary.Changed})
	t.AppendRow(table.Row{"Downloaded", summary.Downloaded})
	t.AppendRow(table.Row{"Processed", summary.Processed})
	t.AppendRow(table.Row{"Failed", summary.FailedCount()})
	t.AppendRow(table.Row{"State saved", summary.StateSaved})
	t.AppendRow(table.Row{"Duration", summary.Duration.Round(timeRounding)})

	t.Render()

	if len(summary.Failures) > 0 {
		ft := table.NewWriter()
		ft.SetOutputMirror(os.Stdout)
		ft.SetStyle(table.StyleLight)
		ft.SetTitle("Failures")
		ft.AppendHeader(table.Row{"Dataset", "Stage", "Error"})
		for _, failure := range summary.Failures {
			ft.AppendRow(table.Row{failure.Identifier, failure.Stage, failure.Err})
		}
		ft.Render()
	}

	if len(summary.HeaderSamples) > 0 {
		fmt.Printf("Sample column transformations (from %s):\n", summary.SampleDataset)
		st := table.NewWriter()
		st.SetOutputMirror(os.Stdout)
		st.SetStyle(table.StyleLight)
		st.AppendHeader(table.Row{"Original", "Cleaned"})
		for _, sample := range summary.HeaderSamples {
			st.AppendRow(table.Row{sample.Original, sample.Cleaned})
		}
		st.Render()
	}
}
