package pipeline

import "time"

// Stage names a pipeline phase for failure reporting.
type Stage string

const (
	// StageDownload is the concurrent download phase.
	StageDownload Stage = "download"
	// StageTransform is the concurrent transform phase.
	StageTransform Stage = "transform"
)

// Failure records one dataset that could not be processed.
type Failure struct {
	// Identifier is the dataset that failed.
	Identifier string
	// Stage is the phase the failure occurred in.
	Stage Stage
	// Err is the per-item error.
	Err error
}

// HeaderSample records one header transformation for display.
type HeaderSample struct {
	Original string
	Cleaned  string
}

// Summary reports what a sync run did at each stage.
type Summary struct {
	// RunID uniquely identifies the run in logs and output.
	RunID string
	// Fetched is the total number of catalog entries retrieved.
	Fetched int
	// Filtered is the number of entries matching the topic filter.
	Filtered int
	// Changed is the number of entries that were new or modified.
	Changed int
	// Downloaded is the number of files fetched successfully.
	Downloaded int
	// Processed is the number of files normalized successfully.
	Processed int
	// Failures lists datasets that failed to download or transform.
	Failures []Failure
	// SampleDataset is the dataset the header samples came from.
	SampleDataset string
	// HeaderSamples shows a few header transformations from the first
	// processed file.
	HeaderSamples []HeaderSample
	// StateSaved reports whether the updated state was persisted.
	StateSaved bool
	// Duration is the wall-clock duration of the run.
	Duration time.Duration
}

// FailedCount returns the number of per-item failures.
func (s *Summary) FailedCount() int {
	return len(s.Failures)
}
