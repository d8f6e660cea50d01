// Package download fetches dataset distributions to the local download
// directory.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jonesrussell/datasync/internal/catalog"
	"github.com/jonesrussell/datasync/internal/logger"
)

// ErrDownload is returned when a single dataset cannot be downloaded.
// It is isolated to that dataset, never fatal to the batch.
var ErrDownload = errors.New("download failed")

// DefaultTimeout is the default timeout for download requests.
const DefaultTimeout = 30 * time.Second

// Result pairs a downloaded raw file with its source dataset.
type Result struct {
	// Dataset is the catalog entry the file came from.
	Dataset catalog.Dataset
	// Path is the local path of the raw file.
	Path string
}

// Downloader fetches dataset distributions over HTTP.
type Downloader struct {
	dir        string
	extension  string
	httpClient *http.Client
	logger     logger.Interface
}

// Option is a function that configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(d *Downloader) {
		d.httpClient = httpClient
	}
}

// WithTimeout sets the timeout for download requests.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Downloader) {
		d.httpClient.Timeout = timeout
	}
}

// NewDownloader creates a downloader writing files named
// <identifier><extension> under dir.
func NewDownloader(dir, extension string, log logger.Interface, opts ...Option) *Downloader {
	downloader := &Downloader{
		dir:        dir,
		extension:  extension,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     log,
	}

	for _, opt := range opts {
		opt(downloader)
	}

	return downloader
}

// Fetch downloads the dataset's primary distribution to the download
// directory. A dataset without distributions fails fast.
func (d *Downloader) Fetch(ctx context.Context, dataset catalog.Dataset) (Result, error) {
	downloadURL, err := dataset.PrimaryDownloadURL()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrDownload, dataset.Identifier, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, http.NoBody)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: failed to create request: %w",
			ErrDownload, dataset.Identifier, err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrDownload, dataset.Identifier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: %s: unexpected status %d from %s",
			ErrDownload, dataset.Identifier, resp.StatusCode, downloadURL)
	}

	path := filepath.Join(d.dir, dataset.Identifier+d.extension)
	out, err := os.Create(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrDownload, dataset.Identifier, err)
	}

	written, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil {
		os.Remove(path)
		return Result{}, fmt.Errorf("%w: %s: %w", ErrDownload, dataset.Identifier, copyErr)
	}
	if closeErr != nil {
		os.Remove(path)
		return Result{}, fmt.Errorf("%w: %s: %w", ErrDownload, dataset.Identifier, closeErr)
	}

	d.logger.Debug("Downloaded dataset",
		"dataset", dataset.Identifier,
		"bytes", written,
		"path", path,
	)

	return Result{Dataset: dataset, Path: path}, nil
}
