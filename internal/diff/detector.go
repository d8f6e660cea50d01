// Package diff computes which catalog entries are new or changed
// relative to the persisted sync state.
package diff

import (
	"github.com/jonesrussell/datasync/internal/catalog"
	"github.com/jonesrussell/datasync/internal/logger"
	"github.com/jonesrussell/datasync/internal/state"
)

// Detector compares catalog entries against persisted sync state.
type Detector struct {
	logger logger.Interface
}

// NewDetector creates a new change detector.
func NewDetector(log logger.Interface) *Detector {
	return &Detector{logger: log}
}

// Changed returns the candidates that are new or whose modified marker
// differs from the persisted one. Comparison is exact inequality, not
// ordering: a marker moving "backward" still counts as changed. The
// result preserves candidate order, so re-running against unchanged
// catalog and state yields an empty slice.
func (d *Detector) Changed(candidates []catalog.Dataset, st *state.State) []catalog.Dataset {
	changed := make([]catalog.Dataset, 0, len(candidates))

	for i := range candidates {
		marker, seen := st.Marker(candidates[i].Identifier)
		if !seen || marker != candidates[i].Modified {
			changed = append(changed, candidates[i])
		}
	}

	d.logger.Info("Computed catalog delta",
		"candidates", len(candidates),
		"changed", len(changed),
	)

	return changed
}
