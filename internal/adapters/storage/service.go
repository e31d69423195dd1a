// Package storage provides a domain-agnostic interface for S3-compatible object storage.
// The default deployment points it at Google Cloud Storage through the XML
// interoperability endpoint; any S3 API (MinIO in development) works too.
package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrObjectNotFound is returned when deleting an object that does not exist.
	ErrObjectNotFound = errors.New("storage: object not found")
	// ErrContentTypeNotAllowed is returned for uploads outside the allow-list.
	ErrContentTypeNotAllowed = errors.New("storage: content type not allowed")
	// ErrFileSize is returned for empty or oversized uploads.
	ErrFileSize = errors.New("storage: invalid file size")
)

// File is an upload as received from a client.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Object describes a stored, publicly readable object.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// StorageService defines the interface for object storage operations.
type StorageService interface {
	// Upload stores the file under a collision-free key, makes it publicly
	// readable and returns its public URL.
	Upload(ctx context.Context, file File) (*Object, error)

	// Delete removes an object. Missing objects yield ErrObjectNotFound.
	Delete(ctx context.Context, key string) error

	// KeyFromURL recovers the object key from a public URL produced by Upload.
	KeyFromURL(rawURL string) string

	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context) error

	// ValidateContentType checks if the content type is allowed.
	ValidateContentType(contentType string) error

	// ValidateFileSize checks if the file size is within limits.
	ValidateFileSize(sizeBytes int64) error

	// GetMaxFileSize returns the configured maximum file size in bytes.
	GetMaxFileSize() int64
}

// Config defines the configuration interface for storage.
type Config interface {
	GetStorageEndpoint() string
	GetStorageAccessKey() string
	GetStorageSecretKey() string
	GetStorageUseSSL() bool
	GetStorageBucket() string
	GetStoragePublicHost() string
	GetStorageMaxFileSize() int64
}
