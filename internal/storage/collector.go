package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gaugeworks/pkg/logging"
)

// PathCollector produces the deduplicated set of file paths referenced by a
// tenant's records, and the freshness timestamp used for cache-key
// derivation. Both run as single set-oriented queries; no per-record
// round trips.
type PathCollector struct {
	db     *sql.DB
	logger logging.Logger
}

// NewPathCollector creates a collector bound to a database connection.
func NewPathCollector(db *sql.DB, logger logging.Logger) *PathCollector {
	return &PathCollector{db: db, logger: logger}
}

// pathsQuery unions every file-reference column across assets and their
// event tables into one DISTINCT result set. Built once from the static
// schema enumeration.
var pathsQuery = buildPathsQuery()

func buildPathsQuery() string {
	var parts []string
	for _, col := range assetFileColumns {
		parts = append(parts, fmt.Sprintf(
			"SELECT %s AS file_path FROM assets WHERE tenant_id = $1 AND %s <> ''",
			col, col))
	}
	for _, et := range eventTables {
		for _, col := range et.FileColumns {
			parts = append(parts, fmt.Sprintf(
				"SELECT e.%s FROM %s e INNER JOIN assets a ON e.asset_id = a.id WHERE a.tenant_id = $1 AND e.%s <> ''",
				col, et.Name, col))
		}
	}
	return fmt.Sprintf(`
		SELECT DISTINCT file_path FROM (
			%s
		) file_paths
		WHERE file_path IS NOT NULL AND file_path <> ''`,
		strings.Join(parts, "\n\t\t\tUNION ALL\n\t\t\t"))
}

// logoQuery fetches the tenant's own file reference.
const logoQuery = `SELECT logo_path FROM tenants WHERE id = $1`

// lastModifiedQuery computes the most recent modification timestamp across
// the tenant row, its assets and all event records in one round trip.
const lastModifiedQuery = `
	SELECT MAX(GREATEST(
		t.updated_at,
		COALESCE(a.updated_at, t.updated_at),
		COALESCE(c.recorded_at, t.updated_at),
		COALESCE(m.recorded_at, t.updated_at),
		COALESCE(v.recorded_at, t.updated_at)
	))
	FROM tenants t
	LEFT JOIN assets a ON a.tenant_id = t.id
	LEFT JOIN calibrations c ON c.asset_id = a.id
	LEFT JOIN maintenances m ON m.asset_id = a.id
	LEFT JOIN verifications v ON v.asset_id = a.id
	WHERE t.id = $1`

// CollectPaths returns every distinct non-empty file path referenced by the
// tenant's records, including the tenant logo. An unknown tenant yields an
// empty slice. A query failure is returned as an error so the caller never
// mistakes a partial listing for a complete one.
func (pc *PathCollector) CollectPaths(ctx context.Context, tenantID string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string

	var logo sql.NullString
	err := pc.db.QueryRowContext(ctx, logoQuery, tenantID).Scan(&logo)
	switch {
	case err == sql.ErrNoRows:
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to query tenant logo: %w", err)
	}
	if logo.Valid && logo.String != "" {
		seen[logo.String] = struct{}{}
		paths = append(paths, logo.String)
	}

	rows, err := pc.db.QueryContext(ctx, pathsQuery, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query file paths: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan file path: %w", err)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file paths: %w", err)
	}

	return paths, nil
}

// LastModified returns the tenant's data-freshness timestamp. A tenant with
// no rows, or an unknown tenant, yields the zero time; the calculator treats
// that as "now", which guarantees a cache miss.
func (pc *PathCollector) LastModified(ctx context.Context, tenantID string) (time.Time, error) {
	var ts sql.NullTime
	err := pc.db.QueryRowContext(ctx, lastModifiedQuery, tenantID).Scan(&ts)
	switch {
	case err == sql.ErrNoRows:
		return time.Time{}, nil
	case err != nil:
		return time.Time{}, fmt.Errorf("failed to query last modification: %w", err)
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return ts.Time, nil
}
