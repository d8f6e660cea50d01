// Package state persists the sync state between pipeline runs.
package state

import "time"

// State maps dataset identifiers to the last-synced modified marker,
// plus the timestamp of the last run.
type State struct {
	// Files maps dataset identifier to its last-synced modified marker.
	// Absence of a key means the dataset has never been synced.
	Files map[string]string `json:"files"`
	// LastRun is when the state was last persisted.
	LastRun time.Time `json:"last_run,omitzero"`
}

// New creates an empty sync state.
func New() *State {
	return &State{
		Files: make(map[string]string),
	}
}

// Marker returns the last-synced marker for an identifier.
func (s *State) Marker(identifier string) (string, bool) {
	marker, ok := s.Files[identifier]
	return marker, ok
}

// SetMarker records the marker for an identifier.
func (s *State) SetMarker(identifier, marker string) {
	if s.Files == nil {
		s.Files = make(map[string]string)
	}
	s.Files[identifier] = marker
}

// Len returns the number of tracked identifiers.
func (s *State) Len() int {
	return len(s.Files)
}
