package storage

import (
	"fmt"
	"strings"

	"cardshare_backend/platform/apperr"
)

// FileKind selects the content type policy of an upload.
type FileKind int

const (
	// KindLogo accepts raster images that can be overlaid on a QR code.
	KindLogo FileKind = iota
	// KindProductFile accepts product images and documents.
	KindProductFile
)

var logoContentTypes = contentTypeSet(
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
)

var productFileContentTypes = contentTypeSet(
	// Images
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/svg+xml",

	// Documents
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-powerpoint",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"text/plain",
	"text/csv",

	// Video
	"video/mp4",
	"video/webm",
)

func contentTypeSet(types ...string) map[string]bool {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

func (k FileKind) allowed() map[string]bool {
	if k == KindLogo {
		return logoContentTypes
	}
	return productFileContentTypes
}

// ValidateContentType checks the content type against the kind's policy.
func (s *MinIOService) ValidateContentType(kind FileKind, contentType string) error {
	normalized := strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
	if !kind.allowed()[normalized] {
		return apperr.Validation(fmt.Sprintf("content type %q is not allowed", contentType))
	}
	return nil
}

// ValidateFileSize checks if the file size is within limits.
func (s *MinIOService) ValidateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return apperr.Validation("file size must be greater than 0")
	}
	if sizeBytes > s.maxFileSize {
		return apperr.Validation(fmt.Sprintf("file size %d bytes exceeds maximum allowed size of %d bytes", sizeBytes, s.maxFileSize))
	}
	return nil
}

// IsImageContentType checks if the content type is an image.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "image/")
}
