package storage

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"gaugeworks/pkg/logging"
)

const (
	// fanOutThreshold is the path count above which size probes run in
	// parallel. Below it the dispatch overhead outweighs the win.
	fanOutThreshold = 50
	// maxWorkers bounds the fan-out pool.
	maxWorkers = 10
	// perPathTimeout bounds a single existence/size probe.
	perPathTimeout = 5 * time.Second
)

// SizeAggregator sums the sizes of existing objects for a list of paths.
// Every per-path failure (missing object, backend error, timeout) contributes
// zero and is logged; the aggregate is always best effort and never an error.
type SizeAggregator struct {
	objects ObjectStore
	logger  logging.Logger

	threshold int
	workers   int
	timeout   time.Duration
}

// NewSizeAggregator creates an aggregator with the default fan-out policy.
func NewSizeAggregator(objects ObjectStore, logger logging.Logger) *SizeAggregator {
	return &SizeAggregator{
		objects:   objects,
		logger:    logger,
		threshold: fanOutThreshold,
		workers:   maxWorkers,
		timeout:   perPathTimeout,
	}
}

// TotalBytes returns the summed size of all existing objects in paths.
// Returns 0 for empty input.
func (a *SizeAggregator) TotalBytes(ctx context.Context, paths []string) int64 {
	if len(paths) == 0 {
		return 0
	}
	if len(paths) > a.threshold {
		return a.totalParallel(ctx, paths)
	}
	return a.totalSequential(ctx, paths)
}

func (a *SizeAggregator) totalSequential(ctx context.Context, paths []string) int64 {
	var total int64
	for _, p := range paths {
		total += a.sizeOf(ctx, p)
	}
	return total
}

// totalParallel fans the probes out across a bounded worker pool. Summation
// is commutative, so completion order does not matter.
func (a *SizeAggregator) totalParallel(ctx context.Context, paths []string) int64 {
	workers := a.workers
	if len(paths) < workers {
		workers = len(paths)
	}

	var total atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, p := range paths {
		path := p
		g.Go(func() error {
			total.Add(a.sizeOf(ctx, path))
			return nil
		})
	}

	// Workers never return errors; Wait only joins them.
	_ = g.Wait()

	return total.Load()
}

// sizeOf probes one path, bounded by the per-path timeout. Missing objects
// and backend failures contribute zero.
func (a *SizeAggregator) sizeOf(ctx context.Context, path string) int64 {
	if path == "" {
		return 0
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	exists, err := a.objects.Exists(ctx, path)
	if err != nil {
		a.logger.WithError(err).WithField("path", path).Warn("Failed to check object existence")
		return 0
	}
	if !exists {
		return 0
	}

	size, err := a.objects.Size(ctx, path)
	if err != nil {
		a.logger.WithError(err).WithField("path", path).Warn("Failed to read object size")
		return 0
	}
	return size
}
