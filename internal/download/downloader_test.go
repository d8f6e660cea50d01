package download_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/datasync/internal/catalog"
	"github.com/jonesrussell/datasync/internal/download"
	"github.com/jonesrussell/datasync/internal/logger"
)

func TestDownloader_Fetch(t *testing.T) {
	t.Parallel()

	const content = "Provider ID,Name\n1,General\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(content))
	}))
	defer server.Close()

	dir := t.TempDir()
	downloader := download.NewDownloader(dir, ".csv", logger.NewNoOp())

	dataset := catalog.Dataset{
		Identifier:   "xubh-q36u",
		Modified:     "2026-08-01",
		DownloadURLs: []string{server.URL + "/file.csv"},
	}

	result, err := downloader.Fetch(context.Background(), dataset)
	require.NoError(t, err)

	assert.Equal(t, dataset.Identifier, result.Dataset.Identifier)
	assert.Equal(t, filepath.Join(dir, "xubh-q36u.csv"), result.Path)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestDownloader_Fetch_NoDistribution(t *testing.T) {
	t.Parallel()

	downloader := download.NewDownloader(t.TempDir(), ".csv", logger.NewNoOp())

	_, err := downloader.Fetch(context.Background(), catalog.Dataset{Identifier: "empty"})
	require.ErrorIs(t, err, download.ErrDownload)
	require.ErrorIs(t, err, catalog.ErrNoDistribution)
}

func TestDownloader_Fetch_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	downloader := download.NewDownloader(dir, ".csv", logger.NewNoOp())

	dataset := catalog.Dataset{
		Identifier:   "missing",
		DownloadURLs: []string{server.URL + "/file.csv"},
	}

	_, err := downloader.Fetch(context.Background(), dataset)
	require.ErrorIs(t, err, download.ErrDownload)

	// No partial file left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
