package storage

import (
	"fmt"
	"strings"
)

// AllowedContentTypes defines the allowed MIME types for uploads.
var AllowedContentTypes = map[string]bool{
	// Images
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,

	// Documents
	"application/pdf": true,
	"text/plain":      true,
	"text/csv":        true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// ValidateContentType checks if the content type is allowed.
func (s *MinIOService) ValidateContentType(contentType string) error {
	return ValidateContentType(contentType)
}

// ValidateFileSize checks if the file size is within limits.
func (s *MinIOService) ValidateFileSize(sizeBytes int64) error {
	return ValidateFileSize(sizeBytes, s.maxFileSize)
}

// ValidateContentType checks contentType against AllowedContentTypes.
func ValidateContentType(contentType string) error {
	if !AllowedContentTypes[normalize(contentType)] {
		return fmt.Errorf("%w: %q", ErrContentTypeNotAllowed, contentType)
	}
	return nil
}

// ValidateFileSize checks 0 < sizeBytes <= maxSize.
func ValidateFileSize(sizeBytes, maxSize int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("%w: file is empty", ErrFileSize)
	}
	if sizeBytes > maxSize {
		return fmt.Errorf("%w: %d bytes exceeds maximum of %d bytes", ErrFileSize, sizeBytes, maxSize)
	}
	return nil
}

// IsImageContentType checks if the content type is an image.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(normalize(contentType), "image/")
}

// Remove parameters like charset.
func normalize(contentType string) string {
	normalized, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(strings.ToLower(normalized))
}
