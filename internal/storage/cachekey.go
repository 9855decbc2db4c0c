package storage

import (
	"fmt"
	"time"
)

const (
	// cacheKeyVersion is bumped to force recomputation across deployments
	// when the calculation semantics change.
	cacheKeyVersion = "v4"

	// usageTTL is how long a computed usage figure stays cached.
	usageTTL = 30 * time.Minute

	// invalidationTTL is the lifetime of the proactive invalidation marker.
	// Longer than usageTTL so the marker outlives any entry it shadows.
	invalidationTTL = 2 * time.Hour
)

// usageCacheKey derives the cache key for a tenant's usage figure. The key
// embeds the tenant's latest modification timestamp, so any data change makes
// previous entries unreachable without explicit deletion.
func usageCacheKey(tenantID string, lastModified time.Time) string {
	return fmt.Sprintf("storage_usage_tenant_%s_%s_%d", tenantID, cacheKeyVersion, lastModified.Unix())
}

// invalidationKey is the side-channel marker written by Invalidate. It covers
// the window where two writes land inside the same derived-key second.
func invalidationKey(tenantID string) string {
	return fmt.Sprintf("storage_invalidated_tenant_%s", tenantID)
}
