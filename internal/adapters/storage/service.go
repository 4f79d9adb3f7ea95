// Package storage provides a domain-agnostic interface for S3-compatible object storage.
// vCard logos and catalogue product files are stored through it.
package storage

import (
	"context"
	"io"
	"time"

	"cardshare_backend/platform/config"
)

// PresignedURL contains the URL and metadata for a presigned upload/download operation.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UploadRequest describes a file the client wants to upload directly.
type UploadRequest struct {
	Bucket      string
	Folder      string
	FileName    string
	ContentType string
	SizeBytes   int64
	Kind        FileKind
}

// StorageService defines the interface for object storage operations.
type StorageService interface {
	// GenerateUploadURL validates req against its FileKind and returns a
	// presigned PUT URL under a unique key inside req.Folder.
	GenerateUploadURL(ctx context.Context, req UploadRequest) (*PresignedURL, error)

	// GenerateDownloadURL creates a presigned URL for downloading a file.
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*PresignedURL, error)

	// DownloadFile downloads a file directly from storage.
	// The caller is responsible for closing the returned io.ReadCloser.
	DownloadFile(ctx context.Context, bucket, fileKey string) (io.ReadCloser, error)

	// ReadObject reads a whole object, failing when it exceeds maxBytes.
	ReadObject(ctx context.Context, bucket, fileKey string, maxBytes int64) ([]byte, error)

	// DeleteObject removes an object from storage.
	DeleteObject(ctx context.Context, bucket, fileKey string) error

	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// GetMaxFileSize returns the configured maximum file size in bytes.
	GetMaxFileSize() int64
}

// Config defines the configuration interface for storage.
type Config = config.MinIOConfig
