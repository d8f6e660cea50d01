// Package worker provides a bounded-parallelism executor for per-dataset
// work such as downloads and transforms.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jonesrussell/datasync/internal/logger"
)

// Result pairs an input item with its outcome. Exactly one of Value and
// Err is meaningful: Err is nil on success.
type Result[T, R any] struct {
	// Item is the input the worker was invoked with.
	Item T
	// Value is the worker's output on success.
	Value R
	// Err is the per-item failure, if any.
	Err error
}

// Succeeded reports whether the item completed without error.
func (r *Result[T, R]) Succeeded() bool {
	return r.Err == nil
}

// Pool bounds the number of concurrently executing workers.
type Pool struct {
	size   int
	logger logger.Interface

	// Stats
	totalProcessed atomic.Int64
	totalSucceeded atomic.Int64
	totalFailed    atomic.Int64
}

// NewPool creates a pool that runs at most size workers at once.
func NewPool(size int, log logger.Interface) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("pool size must be positive, got %d", size)
	}

	return &Pool{
		size:   size,
		logger: log,
	}, nil
}

// Size returns the pool width.
func (p *Pool) Size() int {
	return p.size
}

// Stats holds cumulative pool statistics.
type Stats struct {
	Processed int64
	Succeeded int64
	Failed    int64
}

// Stats returns cumulative statistics across all batches run on the pool.
func (p *Pool) Stats() Stats {
	return Stats{
		Processed: p.totalProcessed.Load(),
		Succeeded: p.totalSucceeded.Load(),
		Failed:    p.totalFailed.Load(),
	}
}

// RunBounded executes fn over every item with at most pool.Size() workers
// active at once. Every scheduled item runs to completion: one item's
// failure never cancels its siblings. The returned slice has one entry
// per input, in input order; each worker writes only its own slot, so no
// locking is needed around the results.
func RunBounded[T, R any](
	ctx context.Context,
	pool *Pool,
	items []T,
	fn func(ctx context.Context, item T) (R, error),
) ([]Result[T, R], error) {
	if fn == nil {
		return nil, errors.New("worker function cannot be nil")
	}

	results := make([]Result[T, R], len(items))
	if len(items) == 0 {
		return results, nil
	}

	sem := make(chan struct{}, pool.size)
	var wg sync.WaitGroup

	for i := range items {
		sem <- struct{}{}
		wg.Add(1)

		go func(slot int) {
			defer func() {
				<-sem
				wg.Done()
			}()

			value, err := fn(ctx, items[slot])
			results[slot] = Result[T, R]{
				Item:  items[slot],
				Value: value,
				Err:   err,
			}

			pool.totalProcessed.Add(1)
			if err != nil {
				pool.totalFailed.Add(1)
			} else {
				pool.totalSucceeded.Add(1)
			}
		}(i)
	}

	wg.Wait()

	failed := 0
	for i := range results {
		if results[i].Err != nil {
			failed++
		}
	}

	pool.logger.Debug("Batch completed",
		"items", len(items),
		"failed", failed,
		"pool_size", pool.size,
	)

	return results, nil
}
