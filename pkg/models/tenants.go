package models

import (
	"time"
)

// Tenant represents a customer account. Each tenant owns a fleet of metrology
// assets and is the unit of storage-quota accounting.
type Tenant struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Plan string `json:"plan" db:"plan"`

	// Branding
	LogoPath *string `json:"logo_path,omitempty" db:"logo_path"`

	// Quotas; zero means "use the plan default"
	StorageLimitMB float64 `json:"storage_limit_mb" db:"storage_limit_mb"`

	IsActive bool `json:"is_active" db:"is_active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Asset represents a piece of metrology equipment owned by a tenant. The
// *_path columns reference documents in the object store.
type Asset struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenant_id" db:"tenant_id"`
	Code     string `json:"code" db:"code"`
	Name     string `json:"name" db:"name"`

	PurchaseDocPath *string `json:"purchase_doc_path,omitempty" db:"purchase_doc_path"`
	DatasheetPath   *string `json:"datasheet_path,omitempty" db:"datasheet_path"`
	ManualPath      *string `json:"manual_path,omitempty" db:"manual_path"`
	ExtraDocsPath   *string `json:"extra_docs_path,omitempty" db:"extra_docs_path"`
	ImagePath       *string `json:"image_path,omitempty" db:"image_path"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Calibration is a dated calibration event for an asset.
type Calibration struct {
	ID      string `json:"id" db:"id"`
	AssetID string `json:"asset_id" db:"asset_id"`
	Result  string `json:"result" db:"result"`

	CertificatePath  *string `json:"certificate_path,omitempty" db:"certificate_path"`
	ConfirmationPath *string `json:"confirmation_path,omitempty" db:"confirmation_path"`
	IntervalsDocPath *string `json:"intervals_doc_path,omitempty" db:"intervals_doc_path"`

	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// Maintenance is a dated maintenance event for an asset.
type Maintenance struct {
	ID      string `json:"id" db:"id"`
	AssetID string `json:"asset_id" db:"asset_id"`
	Kind    string `json:"kind" db:"kind"`

	ReportPath     *string `json:"report_path,omitempty" db:"report_path"`
	AttachmentPath *string `json:"attachment_path,omitempty" db:"attachment_path"`

	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// Verification is a dated intermediate-check event for an asset.
type Verification struct {
	ID      string `json:"id" db:"id"`
	AssetID string `json:"asset_id" db:"asset_id"`
	Result  string `json:"result" db:"result"`

	ReportPath *string `json:"report_path,omitempty" db:"report_path"`

	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}
