package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gaugeworks/pkg/config"
	"gaugeworks/pkg/logging"
	"gaugeworks/pkg/models"
)

// Sentinel errors for quota violations.
var (
	ErrTenantNotFound       = errors.New("tenant not found")
	ErrStorageLimitExceeded = errors.New("storage limit exceeded")
	ErrAssetLimitReached    = errors.New("asset limit reached")
)

// Storage state thresholds, in percent of the quota.
const (
	stateFullAt     = 100
	stateCriticalAt = 90
	stateWarningAt  = 75
	stateModerateAt = 50
)

// QuotaService layers plan limits over the usage calculator: summaries for
// dashboards, and pre-write checks for uploads and asset creation.
type QuotaService struct {
	db     *sql.DB
	calc   *Calculator
	plans  config.PlanCatalog
	logger logging.Logger
}

// NewQuotaService creates a quota service.
func NewQuotaService(db *sql.DB, calc *Calculator, plans config.PlanCatalog, logger logging.Logger) *QuotaService {
	return &QuotaService{db: db, calc: calc, plans: plans, logger: logger}
}

// limitFor resolves a tenant's storage limit: the tenant row's own value
// when positive, otherwise the plan default.
func (q *QuotaService) limitFor(ctx context.Context, tenantID string) (float64, string, error) {
	var plan string
	var limitMB float64
	err := q.db.QueryRowContext(ctx,
		`SELECT plan, storage_limit_mb FROM tenants WHERE id = $1`, tenantID,
	).Scan(&plan, &limitMB)
	if err == sql.ErrNoRows {
		return 0, "", ErrTenantNotFound
	}
	if err != nil {
		return 0, "", fmt.Errorf("failed to query tenant limits: %w", err)
	}
	if limitMB <= 0 {
		limitMB = q.plans.Lookup(plan).StorageLimitMB
	}
	return limitMB, plan, nil
}

// Summary reports a tenant's storage position against its quota.
func (q *QuotaService) Summary(ctx context.Context, tenantID string) (models.StorageSummaryResponse, error) {
	limitMB, _, err := q.limitFor(ctx, tenantID)
	if err != nil {
		return models.StorageSummaryResponse{}, err
	}

	usedMB := q.calc.UsedMB(ctx, tenantID)
	percent := usagePercent(usedMB, limitMB)

	available := limitMB - usedMB
	if available < 0 {
		available = 0
	}

	return models.StorageSummaryResponse{
		TenantID:    tenantID,
		LimitMB:     limitMB,
		UsedMB:      usedMB,
		AvailableMB: available,
		Percent:     percent,
		State:       usageState(percent),
	}, nil
}

// CheckUpload validates that a tenant can store another file of the given
// size without exceeding its quota. Returns ErrStorageLimitExceeded when the
// projected usage crosses the limit.
func (q *QuotaService) CheckUpload(ctx context.Context, tenantID string, sizeBytes int64) (models.ValidateUploadResponse, error) {
	limitMB, _, err := q.limitFor(ctx, tenantID)
	if err != nil {
		return models.ValidateUploadResponse{}, err
	}

	usedMB := q.calc.UsedMB(ctx, tenantID)
	fileMB := float64(sizeBytes) / (1024 * 1024)
	projectedMB := usedMB + fileMB

	resp := models.ValidateUploadResponse{
		UsedMB:      usedMB,
		ProjectedMB: projectedMB,
		LimitMB:     limitMB,
	}

	if projectedMB > limitMB {
		resp.Reason = fmt.Sprintf("upload of %.2f MB would exceed the %.0f MB limit", fileMB, limitMB)
		return resp, ErrStorageLimitExceeded
	}

	if p := usagePercent(projectedMB, limitMB); p >= stateCriticalAt {
		q.logger.WithFields(logging.Fields{
			"tenant_id": tenantID,
			"percent":   p,
		}).Warn("Tenant approaching storage limit")
	}

	resp.Allowed = true
	return resp, nil
}

// CheckAssetCreate validates that a tenant may register another asset under
// its plan's asset-count limit. A zero plan limit means unlimited.
func (q *QuotaService) CheckAssetCreate(ctx context.Context, tenantID string) (models.ValidateAssetCreateResponse, error) {
	_, plan, err := q.limitFor(ctx, tenantID)
	if err != nil {
		return models.ValidateAssetCreateResponse{}, err
	}

	limit := q.plans.Lookup(plan).MaxAssets
	if limit <= 0 {
		return models.ValidateAssetCreateResponse{Allowed: true}, nil
	}

	var count int
	err = q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assets WHERE tenant_id = $1`, tenantID,
	).Scan(&count)
	if err != nil {
		return models.ValidateAssetCreateResponse{}, fmt.Errorf("failed to count assets: %w", err)
	}

	resp := models.ValidateAssetCreateResponse{
		AssetCount: count,
		AssetLimit: limit,
	}
	if count >= limit {
		resp.Reason = fmt.Sprintf("asset limit reached (%d of %d)", count, limit)
		return resp, ErrAssetLimitReached
	}

	resp.Allowed = true
	return resp, nil
}

// usagePercent computes used/limit as a percentage clamped to [0, 100].
// A non-positive limit reads as 0% to avoid dividing by zero.
func usagePercent(usedMB, limitMB float64) float64 {
	if limitMB <= 0 {
		return 0
	}
	p := usedMB / limitMB * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// usageState maps a usage percentage to a display state.
func usageState(percent float64) string {
	switch {
	case percent >= stateFullAt:
		return "full"
	case percent >= stateCriticalAt:
		return "critical"
	case percent >= stateWarningAt:
		return "warning"
	case percent >= stateModerateAt:
		return "moderate"
	default:
		return "good"
	}
}
