// Package catalog provides a typed client for the remote dataset catalog
// and the relevance filter applied to its entries.
package catalog

// apiDataset is the wire representation of a catalog entry.
type apiDataset struct {
	Identifier   string            `json:"identifier"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Theme        []string          `json:"theme"`
	Keyword      []string          `json:"keyword"`
	Modified     string            `json:"modified"`
	Distribution []apiDistribution `json:"distribution"`
}

// apiDistribution is the wire representation of a downloadable artifact.
type apiDistribution struct {
	DownloadURL string `json:"downloadURL"`
}

// Dataset is a catalog entry as used by the rest of the application.
type Dataset struct {
	// Identifier uniquely names the dataset within the catalog.
	Identifier string
	// Title is the human-readable dataset title.
	Title string
	// Description is the dataset description.
	Description string
	// Themes are the catalog's topical groupings for the dataset.
	Themes []string
	// Keywords are free-form tags attached to the dataset.
	Keywords []string
	// Modified is the opaque last-modified marker used for change detection.
	Modified string
	// DownloadURLs lists distribution URLs in catalog order. The first
	// entry is the primary download.
	DownloadURLs []string
}

// PrimaryDownloadURL returns the first distribution URL.
// It fails when the catalog entry carries no distributions.
func (d *Dataset) PrimaryDownloadURL() (string, error) {
	if len(d.DownloadURLs) == 0 {
		return "", ErrNoDistribution
	}
	return d.DownloadURLs[0], nil
}

// toDataset converts a wire entry into a domain Dataset.
func (a *apiDataset) toDataset() Dataset {
	urls := make([]string, 0, len(a.Distribution))
	for _, dist := range a.Distribution {
		urls = append(urls, dist.DownloadURL)
	}

	return Dataset{
		Identifier:   a.Identifier,
		Title:        a.Title,
		Description:  a.Description,
		Themes:       a.Theme,
		Keywords:     a.Keyword,
		Modified:     a.Modified,
		DownloadURLs: urls,
	}
}
