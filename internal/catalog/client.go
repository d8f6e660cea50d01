package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonesrussell/datasync/internal/logger"
)

const (
	// DefaultTimeout is the default timeout for catalog requests.
	DefaultTimeout = 30 * time.Second
)

// Client fetches dataset descriptors from a remote catalog API.
type Client struct {
	catalogURL string
	httpClient *http.Client
	logger     logger.Interface
}

// Option is a function that configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the timeout for catalog requests.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new catalog client.
func NewClient(catalogURL string, log logger.Interface, opts ...Option) *Client {
	client := &Client{
		catalogURL: catalogURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     log,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// FetchAll retrieves the full dataset list from the catalog endpoint.
// Entries without an identifier are skipped with a warning; a network or
// decode failure is fatal and reported as ErrCatalogFetch.
func (c *Client) FetchAll(ctx context.Context) ([]Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.catalogURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrCatalogFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogFetch, err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrCatalogFetch, readErr)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d from %s",
			ErrCatalogFetch, resp.StatusCode, c.catalogURL)
	}

	var entries []apiDataset
	if unmarshalErr := json.Unmarshal(body, &entries); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: failed to decode catalog response: %w",
			ErrCatalogFetch, unmarshalErr)
	}

	datasets := make([]Dataset, 0, len(entries))
	for i := range entries {
		if entries[i].Identifier == "" {
			c.logger.Warn("Skipping catalog entry without identifier",
				"title", entries[i].Title,
			)
			continue
		}
		datasets = append(datasets, entries[i].toDataset())
	}

	c.logger.Debug("Fetched catalog",
		"url", c.catalogURL,
		"datasets", len(datasets),
	)

	return datasets, nil
}
