package pipeline_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/datasync/internal/config"
	"github.com/jonesrussell/datasync/internal/config/app"
	synccfg "github.com/jonesrussell/datasync/internal/config/sync"
	"github.com/jonesrussell/datasync/internal/logger"
	"github.com/jonesrussell/datasync/internal/pipeline"
	"github.com/jonesrussell/datasync/internal/state"
)

// newTestServer serves a catalog of three datasets: two match the
// "hospitals" topic, one does not. File downloads are served under
// /files/.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	var server *httptest.Server

	mux.HandleFunc("/catalog", func(w http.ResponseWriter, r *http.Request) {
		payload := fmt.Sprintf(`[
			{
				"identifier": "hosp-new",
				"title": "Hospital General Information",
				"theme": ["Hospitals"],
				"modified": "2026-08-20",
				"distribution": [{"downloadURL": %q}]
			},
			{
				"identifier": "hosp-known",
				"title": "Hospital Readmission Rates",
				"theme": ["Hospitals"],
				"modified": "2026-08-01",
				"distribution": [{"downloadURL": %q}]
			},
			{
				"identifier": "home-health",
				"title": "Home Health Agencies",
				"theme": ["Home health"],
				"modified": "2026-08-10",
				"distribution": [{"downloadURL": %q}]
			}
		]`,
			server.URL+"/files/hosp-new.csv",
			server.URL+"/files/hosp-known.csv",
			server.URL+"/files/home-health.csv",
		)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	})

	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Provider ID,Hospital Name (%)\n1,General\n2,Mercy\n"))
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestConfig(t *testing.T, catalogURL string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	downloadDir := filepath.Join(dir, "downloads")
	cleanedDir := filepath.Join(dir, "cleaned")

	cfg := &config.Config{
		App: app.New(app.WithEnvironment("development")),
		Sync: &synccfg.Config{
			CatalogURL:  catalogURL,
			DownloadDir: downloadDir,
			CleanedDir:  cleanedDir,
			StateFile:   filepath.Join(dir, "metadata.json"),
			MaxWorkers:  2,
			Topic:       "hospitals",
		},
	}
	cfg.Sync.ApplyDefaults()
	require.NoError(t, cfg.EnsureDirectories())

	return cfg
}

func TestPipeline_Run_EndToEnd(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	cfg := newTestConfig(t, server.URL+"/catalog")

	// hosp-known is already synced with a matching marker, so only
	// hosp-new should be processed.
	store := state.NewStore(cfg.Sync.StateFile, logger.NewNoOp())
	seeded := state.New()
	seeded.SetMarker("hosp-known", "2026-08-01")
	require.NoError(t, store.Save(seeded))

	p, err := pipeline.New(cfg, logger.NewNoOp())
	require.NoError(t, err)

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Fetched)
	assert.Equal(t, 2, summary.Filtered)
	assert.Equal(t, 1, summary.Changed)
	assert.Equal(t, 1, summary.Downloaded)
	assert.Equal(t, 1, summary.Processed)
	assert.Empty(t, summary.Failures)
	assert.True(t, summary.StateSaved)
	assert.NotEmpty(t, summary.RunID)

	// The raw and cleaned artifacts exist, and only for hosp-new.
	_, err = os.Stat(filepath.Join(cfg.Sync.DownloadDir, "hosp-new.csv"))
	require.NoError(t, err)
	cleaned, err := os.ReadFile(filepath.Join(cfg.Sync.CleanedDir, "hosp-new_cleaned.csv"))
	require.NoError(t, err)
	assert.Equal(t, "provider_id,hospital_name\n1,General\n2,Mercy\n", string(cleaned))

	// Header samples come from the processed file.
	assert.Equal(t, "hosp-new", summary.SampleDataset)
	require.NotEmpty(t, summary.HeaderSamples)
	assert.Equal(t, "Provider ID", summary.HeaderSamples[0].Original)
	assert.Equal(t, "provider_id", summary.HeaderSamples[0].Cleaned)

	// State now tracks both datasets.
	persisted, err := store.Load()
	require.NoError(t, err)
	marker, ok := persisted.Marker("hosp-new")
	require.True(t, ok)
	assert.Equal(t, "2026-08-20", marker)
	_, ok = persisted.Marker("hosp-known")
	assert.True(t, ok)
}

func TestPipeline_Run_SecondRunIsNoOp(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	cfg := newTestConfig(t, server.URL+"/catalog")

	p, err := pipeline.New(cfg, logger.NewNoOp())
	require.NoError(t, err)

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Processed)

	second, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Changed)
	assert.Equal(t, 0, second.Downloaded)
	assert.Equal(t, 0, second.Processed)
	assert.False(t, second.StateSaved)
}

func TestPipeline_Run_CatalogFailureIsFatal(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	cfg := newTestConfig(t, server.URL+"/catalog")

	p, err := pipeline.New(cfg, logger.NewNoOp())
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.Error(t, err)

	// No state was written.
	_, statErr := os.Stat(cfg.Sync.StateFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPipeline_Run_FailedItemNotMarkedSynced(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/catalog", func(w http.ResponseWriter, r *http.Request) {
		payload := fmt.Sprintf(`[
			{
				"identifier": "hosp-good",
				"title": "Hospital A",
				"modified": "2026-08-20",
				"distribution": [{"downloadURL": %q}]
			},
			{
				"identifier": "hosp-broken",
				"title": "Hospital B",
				"modified": "2026-08-21",
				"distribution": [{"downloadURL": %q}]
			},
			{
				"identifier": "hosp-no-dist",
				"title": "Hospital C",
				"modified": "2026-08-22",
				"distribution": []
			}
		]`,
			server.URL+"/files/hosp-good.csv",
			server.URL+"/missing/hosp-broken.csv",
		)
		_, _ = w.Write([]byte(payload))
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Name\nGeneral\n"))
	})
	mux.HandleFunc("/missing/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := newTestConfig(t, server.URL+"/catalog")

	p, err := pipeline.New(cfg, logger.NewNoOp())
	require.NoError(t, err)

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Changed)
	assert.Equal(t, 1, summary.Downloaded)
	assert.Equal(t, 1, summary.Processed)
	require.Len(t, summary.Failures, 2)
	for _, failure := range summary.Failures {
		assert.Equal(t, pipeline.StageDownload, failure.Stage)
	}
	assert.True(t, summary.StateSaved)

	// Failed datasets stay out of state so the next run retries them.
	store := state.NewStore(cfg.Sync.StateFile, logger.NewNoOp())
	persisted, err := store.Load()
	require.NoError(t, err)
	_, ok := persisted.Marker("hosp-good")
	assert.True(t, ok)
	_, ok = persisted.Marker("hosp-broken")
	assert.False(t, ok)
	_, ok = persisted.Marker("hosp-no-dist")
	assert.False(t, ok)
}
