package catalog

import "errors"

// Common errors returned by the catalog package.
var (
	// ErrCatalogFetch is returned when the catalog cannot be fetched or
	// decoded. It is fatal to a sync run: no partial catalog is usable.
	ErrCatalogFetch = errors.New("catalog fetch failed")
	// ErrNoDistribution is returned when a dataset has no download URLs.
	ErrNoDistribution = errors.New("dataset has no distribution")
)
