package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonesrussell/datasync/internal/logger"
)

// Common errors returned by the state package.
var (
	// ErrStateCorrupt is returned when the persisted state cannot be
	// decoded. It is fatal: syncing against unknown state would
	// re-download everything or, worse, skip changed datasets.
	ErrStateCorrupt = errors.New("persisted state is corrupt")
	// ErrStatePersist is returned when the state cannot be written.
	ErrStatePersist = errors.New("failed to persist state")
)

// Store loads and persists sync state as a JSON file.
type Store struct {
	path   string
	logger logger.Interface
	now    func() time.Time
}

// StoreOption is a function that configures a Store.
type StoreOption func(*Store)

// WithClock overrides the clock used to stamp saves. Used in tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a state store backed by the file at path.
func NewStore(path string, log logger.Interface, opts ...StoreOption) *Store {
	store := &Store{
		path:   path,
		logger: log,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Load reads the persisted state. A missing file yields an empty state;
// unreadable or malformed content is reported as ErrStateCorrupt.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("No previous state found, starting fresh",
			"path", s.path,
		)
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStateCorrupt, err)
	}

	var loaded State
	if unmarshalErr := json.Unmarshal(data, &loaded); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrStateCorrupt, unmarshalErr)
	}

	if loaded.Files == nil {
		loaded.Files = make(map[string]string)
	}

	s.logger.Debug("Loaded state",
		"path", s.path,
		"tracked", loaded.Len(),
	)

	return &loaded, nil
}

// Save stamps the state with the current time and persists it
// atomically: the state is written to a temp file in the same directory
// and renamed over the previous file, so a crash mid-write never
// corrupts the last valid state.
func (s *Store) Save(st *State) error {
	st.LastRun = s.now()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStatePersist, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStatePersist, err)
	}

	if _, writeErr := tmp.Write(data); writeErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrStatePersist, writeErr)
	}

	if closeErr := tmp.Close(); closeErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrStatePersist, closeErr)
	}

	if renameErr := os.Rename(tmp.Name(), s.path); renameErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrStatePersist, renameErr)
	}

	s.logger.Debug("Saved state",
		"path", s.path,
		"tracked", st.Len(),
	)

	return nil
}
