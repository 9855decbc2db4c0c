package storage

import (
	"context"
	"time"
)

// ObjectStore is the blob-store surface the size aggregator needs: existence
// and size probes by key. Implementations must be safe for concurrent use.
type ObjectStore interface {
	// Exists reports whether an object is present under the key.
	Exists(ctx context.Context, key string) (bool, error)
	// Size returns the object's size in bytes.
	Size(ctx context.Context, key string) (int64, error)
}

// DocumentStore is the direct-transfer surface for record attachments:
// presigned URLs so clients upload and download without proxying bytes
// through the service, plus deletion for replaced attachments. Only the
// S3 store implements it; the local driver runs without one.
type DocumentStore interface {
	// PresignGet returns a time-limited download URL for a stored document.
	PresignGet(key string, expiry time.Duration) (string, error)
	// PresignPut returns a time-limited upload URL for a document key.
	PresignPut(key string, expiry time.Duration) (string, error)
	// Delete removes a stored document.
	Delete(ctx context.Context, key string) error
	// BuildDocumentKey builds the tenant-scoped key for a record attachment.
	BuildDocumentKey(tenantID, recordType, recordID, filename string) string
}
