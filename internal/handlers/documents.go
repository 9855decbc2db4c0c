package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"gaugeworks/pkg/middleware"
	"gaugeworks/pkg/models"
)

// documentsUnavailable rejects document-transfer requests when the object
// store cannot presign.
func documentsUnavailable(c middleware.Context) bool {
	if docs != nil {
		return false
	}
	c.JSON(http.StatusNotImplemented, middleware.H{"error": "Document transfer requires an S3-backed object store"})
	return true
}

// tenantOwnsKey rejects document keys outside the tenant's own prefix so one
// tenant can never presign or delete another tenant's objects.
func tenantOwnsKey(c middleware.Context, tenantID, key string) bool {
	if strings.HasPrefix(key, fmt.Sprintf("documents/%s/", tenantID)) {
		return true
	}
	c.JSON(http.StatusForbidden, middleware.H{"error": "Document key outside tenant scope"})
	return false
}

// PresignDocumentUpload returns a time-limited URL for uploading a record
// attachment directly to the object store
func PresignDocumentUpload(c middleware.Context) {
	if documentsUnavailable(c) {
		return
	}
	tenantID := c.Param("id")

	var req models.PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	key := docs.BuildDocumentKey(tenantID, req.RecordType, req.RecordID, req.Filename)
	url, err := docs.PresignPut(key, 0)
	if err != nil {
		middleware.GetContextLogger(c, logger).WithError(err).WithField("tenant_id", tenantID).Error("Failed to presign document upload")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, models.PresignUploadResponse{Key: key, URL: url})
}

// PresignDocumentDownload returns a time-limited URL for fetching a stored
// document directly from the object store
func PresignDocumentDownload(c middleware.Context) {
	if documentsUnavailable(c) {
		return
	}
	tenantID := c.Param("id")

	var req models.PresignDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}
	if !tenantOwnsKey(c, tenantID, req.Key) {
		return
	}

	url, err := docs.PresignGet(req.Key, 0)
	if err != nil {
		middleware.GetContextLogger(c, logger).WithError(err).WithField("tenant_id", tenantID).Error("Failed to presign document download")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, models.PresignDownloadResponse{URL: url})
}

// DeleteDocument removes a stored attachment, used when a record's document
// is replaced. The tenant's cached usage is invalidated since the figure
// just changed under the derived key's second.
func DeleteDocument(c middleware.Context) {
	if documentsUnavailable(c) {
		return
	}
	tenantID := c.Param("id")

	var req models.DeleteDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}
	if !tenantOwnsKey(c, tenantID, req.Key) {
		return
	}

	if err := docs.Delete(c.Request.Context(), req.Key); err != nil {
		middleware.GetContextLogger(c, logger).WithError(err).WithField("tenant_id", tenantID).Error("Failed to delete document")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Internal server error"})
		return
	}

	calc.Invalidate(c.Request.Context(), tenantID)

	c.JSON(http.StatusOK, middleware.H{"status": "deleted", "key": req.Key})
}
