package models

// StorageSummaryResponse reports a tenant's storage position against its
// quota. State is one of: good, moderate, warning, critical, full.
type StorageSummaryResponse struct {
	TenantID    string  `json:"tenant_id"`
	LimitMB     float64 `json:"limit_mb"`
	UsedMB      float64 `json:"used_mb"`
	AvailableMB float64 `json:"available_mb"`
	Percent     float64 `json:"percent"`
	State       string  `json:"state"`
}

// ValidateUploadRequest asks whether a tenant may store another file without
// exceeding its storage quota.
type ValidateUploadRequest struct {
	SizeBytes int64 `json:"size_bytes" binding:"required,gt=0"`
}

// ValidateUploadResponse is returned for upload validation requests.
type ValidateUploadResponse struct {
	Allowed     bool    `json:"allowed"`
	UsedMB      float64 `json:"used_mb"`
	ProjectedMB float64 `json:"projected_mb"`
	LimitMB     float64 `json:"limit_mb"`
	Reason      string  `json:"reason,omitempty"`
}

// ValidateAssetCreateResponse is returned for asset-creation validation.
type ValidateAssetCreateResponse struct {
	Allowed    bool   `json:"allowed"`
	AssetCount int    `json:"asset_count"`
	AssetLimit int    `json:"asset_limit"`
	Reason     string `json:"reason,omitempty"`
}

// PresignUploadRequest asks for a direct-upload URL for a record attachment.
type PresignUploadRequest struct {
	RecordType string `json:"record_type" binding:"required"`
	RecordID   string `json:"record_id" binding:"required"`
	Filename   string `json:"filename" binding:"required"`
}

// PresignUploadResponse carries the object key the document will live under
// and the URL to PUT it to.
type PresignUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// PresignDownloadRequest asks for a direct-download URL for a stored document.
type PresignDownloadRequest struct {
	Key string `json:"key" binding:"required"`
}

// PresignDownloadResponse carries the time-limited download URL.
type PresignDownloadResponse struct {
	URL string `json:"url"`
}

// DeleteDocumentRequest names the stored document to remove.
type DeleteDocumentRequest struct {
	Key string `json:"key" binding:"required"`
}
