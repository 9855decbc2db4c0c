package handlers

import (
	"errors"
	"net/http"

	"gaugeworks/internal/storage"
	"gaugeworks/pkg/middleware"
	"gaugeworks/pkg/models"
)

// GetStorageSummary returns a tenant's storage usage against its quota
func GetStorageSummary(c middleware.Context) {
	tenantID := c.Param("id")

	summary, err := quota.Summary(c.Request.Context(), tenantID)
	if errors.Is(err, storage.ErrTenantNotFound) {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Tenant not found"})
		return
	}
	if err != nil {
		middleware.GetContextLogger(c, logger).WithError(err).WithField("tenant_id", tenantID).Error("Failed to build storage summary")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// InvalidateStorageCache marks a tenant's cached usage as stale. Fire and
// forget: callers that just wrote data do not wait on the recompute.
func InvalidateStorageCache(c middleware.Context) {
	tenantID := c.Param("id")

	calc.Invalidate(c.Request.Context(), tenantID)

	c.JSON(http.StatusAccepted, middleware.H{"status": "invalidated", "tenant_id": tenantID})
}

// ValidateUpload checks whether a tenant may store another file of the
// given size without exceeding its storage quota
func ValidateUpload(c middleware.Context) {
	tenantID := c.Param("id")

	var req models.ValidateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	resp, err := quota.CheckUpload(c.Request.Context(), tenantID, req.SizeBytes)
	if errors.Is(err, storage.ErrTenantNotFound) {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Tenant not found"})
		return
	}
	if errors.Is(err, storage.ErrStorageLimitExceeded) {
		c.JSON(http.StatusRequestEntityTooLarge, resp)
		return
	}
	if err != nil {
		middleware.GetContextLogger(c, logger).WithError(err).WithField("tenant_id", tenantID).Error("Failed to validate upload")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ValidateAssetCreate checks whether a tenant may register another asset
// under its plan's asset-count limit
func ValidateAssetCreate(c middleware.Context) {
	tenantID := c.Param("id")

	resp, err := quota.CheckAssetCreate(c.Request.Context(), tenantID)
	if errors.Is(err, storage.ErrTenantNotFound) {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Tenant not found"})
		return
	}
	if errors.Is(err, storage.ErrAssetLimitReached) {
		c.JSON(http.StatusConflict, resp)
		return
	}
	if err != nil {
		middleware.GetContextLogger(c, logger).WithError(err).WithField("tenant_id", tenantID).Error("Failed to validate asset creation")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
