package storage

import (
	"context"
	"database/sql"
	"math"
	"strconv"
	"time"

	"gaugeworks/pkg/logging"
)

// Metrics carries optional hooks observed by the calculator. Nil hooks are
// skipped; the zero value disables instrumentation entirely.
type Metrics struct {
	OnCacheHit  func()
	OnCacheMiss func()
	OnCompute   func(mode string, pathCount int, seconds float64)
}

// Calculator answers "how many MB is this tenant using" from cache when the
// tenant's data has not changed, recomputing otherwise. UsedMB never returns
// an error: the figure feeds usage displays and soft quota checks, where a
// best-effort number beats an unavailable one.
type Calculator struct {
	collector  *PathCollector
	aggregator *SizeAggregator
	cache      CacheStore
	logger     logging.Logger
	metrics    Metrics

	ttl time.Duration
	now func() time.Time
}

// NewCalculator wires a calculator from its collaborators.
func NewCalculator(db *sql.DB, objects ObjectStore, cache CacheStore, logger logging.Logger) *Calculator {
	return &Calculator{
		collector:  NewPathCollector(db, logger),
		aggregator: NewSizeAggregator(objects, logger),
		cache:      cache,
		logger:     logger,
		ttl:        usageTTL,
		now:        time.Now,
	}
}

// SetMetrics installs instrumentation hooks.
func (c *Calculator) SetMetrics(m Metrics) {
	c.metrics = m
}

// UsedMB returns the tenant's total storage usage in MB, rounded to two
// decimals. Unknown tenants and tenants with no files yield 0.0, as does a
// data-store failure: the caller cannot tell those apart, which is the
// accepted trade-off for an infallible read.
func (c *Calculator) UsedMB(ctx context.Context, tenantID string) float64 {
	lastModified, err := c.collector.LastModified(ctx, tenantID)
	if err != nil {
		c.logger.WithError(err).WithField("tenant_id", tenantID).Warn("Failed to derive cache version, forcing recompute")
		lastModified = time.Time{}
	}
	if lastModified.IsZero() {
		// No rows, or a derivation failure: "now" guarantees a miss.
		lastModified = c.now()
	}

	key := usageCacheKey(tenantID, lastModified)
	invalidated := c.isInvalidated(ctx, tenantID, lastModified)

	if !invalidated {
		if mb, ok := c.readCache(ctx, key); ok {
			if c.metrics.OnCacheHit != nil {
				c.metrics.OnCacheHit()
			}
			return mb
		}
	}
	if c.metrics.OnCacheMiss != nil {
		c.metrics.OnCacheMiss()
	}

	mb := c.compute(ctx, tenantID)
	c.writeCache(ctx, key, mb)

	if invalidated {
		// The marker is single-shot: clear it now that a fresh value is stored.
		if err := c.cache.Delete(ctx, invalidationKey(tenantID)); err != nil {
			c.logger.WithError(err).WithField("tenant_id", tenantID).Warn("Failed to clear invalidation marker")
		}
	}

	return mb
}

// Invalidate marks a tenant's cached usage as stale. Best effort: callers
// that just wrote data and cannot wait for the timestamp-derived key to move
// (same-second writes) use this; a failed write is only logged.
func (c *Calculator) Invalidate(ctx context.Context, tenantID string) {
	key := invalidationKey(tenantID)
	value := strconv.FormatInt(c.now().Unix(), 10)
	if err := c.cache.Set(ctx, key, value, invalidationTTL); err != nil {
		c.logger.WithError(err).WithField("tenant_id", tenantID).Warn("Failed to write invalidation marker")
	}
}

// isInvalidated reports whether a proactive invalidation marker shadows the
// derived key. Marker errors are ignored; they only cost a recompute.
func (c *Calculator) isInvalidated(ctx context.Context, tenantID string, lastModified time.Time) bool {
	val, ok, err := c.cache.Get(ctx, invalidationKey(tenantID))
	if err != nil || !ok {
		return false
	}
	markedAt, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false
	}
	return markedAt >= lastModified.Unix()
}

func (c *Calculator) readCache(ctx context.Context, key string) (float64, bool) {
	val, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.WithError(err).WithField("cache_key", key).Warn("Cache read failed, treating as miss")
		return 0, false
	}
	if !ok {
		return 0, false
	}
	mb, err := strconv.ParseFloat(val, 64)
	if err != nil {
		c.logger.WithError(err).WithField("cache_key", key).Warn("Corrupt cache entry, treating as miss")
		return 0, false
	}
	return mb, true
}

func (c *Calculator) writeCache(ctx context.Context, key string, mb float64) {
	val := strconv.FormatFloat(mb, 'f', -1, 64)
	if err := c.cache.Set(ctx, key, val, c.ttl); err != nil {
		c.logger.WithError(err).WithField("cache_key", key).Warn("Cache write failed")
	}
}

// compute runs the full path-collection and size-aggregation pass.
func (c *Calculator) compute(ctx context.Context, tenantID string) float64 {
	paths, err := c.collector.CollectPaths(ctx, tenantID)
	if err != nil {
		// Lossy by design: a transient query failure reads as zero usage.
		c.logger.WithError(err).WithField("tenant_id", tenantID).Error("Failed to collect file paths")
		return 0.0
	}
	if len(paths) == 0 {
		return 0.0
	}

	mode := "sequential"
	if len(paths) > c.aggregator.threshold {
		mode = "parallel"
	}

	start := time.Now()
	totalBytes := c.aggregator.TotalBytes(ctx, paths)
	if c.metrics.OnCompute != nil {
		c.metrics.OnCompute(mode, len(paths), time.Since(start).Seconds())
	}

	return roundMB(totalBytes)
}

// roundMB converts bytes to MB rounded to two decimals.
func roundMB(bytes int64) float64 {
	mb := float64(bytes) / (1024 * 1024)
	return math.Round(mb*100) / 100
}
