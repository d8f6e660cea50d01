// Package pipeline sequences an incremental sync run: load state, fetch
// and filter the catalog, diff against state, download and transform the
// changed datasets, and persist the updated state.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/datasync/internal/catalog"
	"github.com/jonesrussell/datasync/internal/config"
	synccfg "github.com/jonesrussell/datasync/internal/config/sync"
	"github.com/jonesrussell/datasync/internal/diff"
	"github.com/jonesrussell/datasync/internal/download"
	"github.com/jonesrussell/datasync/internal/logger"
	"github.com/jonesrussell/datasync/internal/state"
	"github.com/jonesrussell/datasync/internal/transform"
	"github.com/jonesrussell/datasync/internal/worker"
)

const (
	// displayedTitles caps how many changed dataset titles are logged.
	displayedTitles = 5
	// displayedHeaderSamples caps the header transformations reported
	// from the first processed file.
	displayedHeaderSamples = 3
)

// Pipeline runs the incremental sync.
type Pipeline struct {
	cfg         *synccfg.Config
	logger      logger.Interface
	catalog     *catalog.Client
	filter      *catalog.Filter
	store       *state.Store
	detector    *diff.Detector
	downloader  *download.Downloader
	transformer *transform.Transformer
	pool        *worker.Pool
}

// New constructs a pipeline and its component dependencies from the
// application configuration.
func New(cfg config.Interface, log logger.Interface) (*Pipeline, error) {
	syncCfg := cfg.GetSyncConfig()
	if err := syncCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sync configuration: %w", err)
	}

	pool, err := worker.NewPool(syncCfg.MaxWorkers, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &Pipeline{
		cfg:    syncCfg,
		logger: log,
		catalog: catalog.NewClient(syncCfg.CatalogURL, log,
			catalog.WithTimeout(syncCfg.RequestTimeout)),
		filter:   catalog.NewFilter(log),
		store:    state.NewStore(syncCfg.StateFile, log),
		detector: diff.NewDetector(log),
		downloader: download.NewDownloader(syncCfg.DownloadDir, syncCfg.FileExtension, log,
			download.WithTimeout(syncCfg.RequestTimeout)),
		transformer: transform.NewTransformer(
			syncCfg.CleanedDir, syncCfg.CleanedSuffix, syncCfg.FileExtension, log),
		pool: pool,
	}, nil
}

// Run executes one sync run. Fatal errors (catalog fetch, corrupt state,
// state persistence) are returned alongside the partial summary;
// per-item failures are reported in the summary only.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()
	summary := &Summary{RunID: uuid.NewString()}
	log := p.logger.WithRunID(summary.RunID)

	log.Info("Starting sync run",
		"catalog_url", p.cfg.CatalogURL,
		"topic", p.cfg.Topic,
	)

	syncState, err := p.store.Load()
	if err != nil {
		return summary, fmt.Errorf("failed to load state: %w", err)
	}

	all, err := p.catalog.FetchAll(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	summary.Fetched = len(all)
	log.Info("Fetched catalog", "datasets", summary.Fetched)

	relevant := p.filter.Relevant(all, p.cfg.Topic)
	summary.Filtered = len(relevant)

	changed := p.detector.Changed(relevant, syncState)
	summary.Changed = len(changed)

	if len(changed) == 0 {
		log.Info("No new or updated datasets since last run")
		summary.Duration = time.Since(started)
		return summary, nil
	}

	p.logChangedTitles(log, changed)

	downloaded := p.downloadPhase(ctx, log, changed, summary)
	processed := p.transformPhase(ctx, log, downloaded, summary)

	// Only datasets that completed both phases are marked synced, so
	// failed ones are picked up again on the next run.
	for i := range processed {
		syncState.SetMarker(processed[i].dataset.Identifier, processed[i].dataset.Modified)
	}

	p.collectHeaderSamples(processed, summary)

	if saveErr := p.store.Save(syncState); saveErr != nil {
		summary.Duration = time.Since(started)
		return summary, fmt.Errorf("failed to save state: %w", saveErr)
	}
	summary.StateSaved = true
	summary.Duration = time.Since(started)

	log.Info("Sync run completed",
		"downloaded", summary.Downloaded,
		"processed", summary.Processed,
		"failed", summary.FailedCount(),
		"duration", summary.Duration,
	)

	return summary, nil
}

// processedDataset pairs a transform result with its source dataset.
type processedDataset struct {
	dataset catalog.Dataset
	result  transform.Result
}

// downloadPhase fans out downloads across the worker pool and records
// per-item failures on the summary.
func (p *Pipeline) downloadPhase(
	ctx context.Context,
	log logger.Interface,
	changed []catalog.Dataset,
	summary *Summary,
) []download.Result {
	results, err := worker.RunBounded(ctx, p.pool, changed, p.downloader.Fetch)
	if err != nil {
		// Only reachable with a nil worker function.
		log.Error("Download phase failed to start", "error", err)
		return nil
	}

	succeeded := make([]download.Result, 0, len(results))
	for i := range results {
		if results[i].Err != nil {
			log.Warn("Dataset download failed",
				"dataset", results[i].Item.Identifier,
				"error", results[i].Err,
			)
			summary.Failures = append(summary.Failures, Failure{
				Identifier: results[i].Item.Identifier,
				Stage:      StageDownload,
				Err:        results[i].Err,
			})
			continue
		}
		succeeded = append(succeeded, results[i].Value)
	}

	summary.Downloaded = len(succeeded)
	log.Info("Download phase completed",
		"downloaded", summary.Downloaded,
		"failed", len(results)-len(succeeded),
		"dir", p.cfg.DownloadDir,
	)

	return succeeded
}

// transformPhase normalizes downloaded files across the worker pool.
// It starts only after every download has finished.
func (p *Pipeline) transformPhase(
	ctx context.Context,
	log logger.Interface,
	downloaded []download.Result,
	summary *Summary,
) []processedDataset {
	results, err := worker.RunBounded(ctx, p.pool, downloaded,
		func(_ context.Context, item download.Result) (transform.Result, error) {
			return p.transformer.NormalizeFile(item.Path, item.Dataset.Identifier)
		})
	if err != nil {
		log.Error("Transform phase failed to start", "error", err)
		return nil
	}

	processed := make([]processedDataset, 0, len(results))
	for i := range results {
		if results[i].Err != nil {
			log.Warn("Dataset transform failed",
				"dataset", results[i].Item.Dataset.Identifier,
				"error", results[i].Err,
			)
			summary.Failures = append(summary.Failures, Failure{
				Identifier: results[i].Item.Dataset.Identifier,
				Stage:      StageTransform,
				Err:        results[i].Err,
			})
			continue
		}
		processed = append(processed, processedDataset{
			dataset: results[i].Item.Dataset,
			result:  results[i].Value,
		})
	}

	summary.Processed = len(processed)
	log.Info("Transform phase completed",
		"processed", summary.Processed,
		"failed", len(results)-len(processed),
		"dir", p.cfg.CleanedDir,
	)

	return processed
}

// logChangedTitles logs the first few changed dataset titles.
func (p *Pipeline) logChangedTitles(log logger.Interface, changed []catalog.Dataset) {
	log.Info("Found datasets to download and process", "count", len(changed))

	shown := min(len(changed), displayedTitles)
	for i := 0; i < shown; i++ {
		title := changed[i].Title
		if title == "" {
			title = changed[i].Identifier
		}
		log.Info("  - " + title)
	}
	if len(changed) > shown {
		log.Info(fmt.Sprintf("  and %d more", len(changed)-shown))
	}
}

// collectHeaderSamples records a few header transformations from the
// first processed file for display.
func (p *Pipeline) collectHeaderSamples(processed []processedDataset, summary *Summary) {
	if len(processed) == 0 {
		return
	}

	first := processed[0].result
	summary.SampleDataset = first.Identifier

	shown := min(len(first.OriginalHeaders), displayedHeaderSamples)
	for i := 0; i < shown; i++ {
		summary.HeaderSamples = append(summary.HeaderSamples, HeaderSample{
			Original: first.OriginalHeaders[i],
			Cleaned:  first.CleanedHeaders[i],
		})
	}
}
