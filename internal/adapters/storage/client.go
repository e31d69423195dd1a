package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"capstone_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	aclHeader  = "x-amz-acl"
	publicRead = "public-read"
	noSuchKey  = "NoSuchKey"
)

// MinIOService implements StorageService using the MinIO S3 client.
type MinIOService struct {
	client      *minio.Client
	bucket      string
	publicBase  string
	maxFileSize int64
}

// NewMinIOService creates a new storage service bound to the configured bucket.
func NewMinIOService(cfg Config) (*MinIOService, error) {
	client, err := minio.New(cfg.GetStorageEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetStorageAccessKey(), cfg.GetStorageSecretKey(), ""),
		Secure: cfg.GetStorageUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &MinIOService{
		client:      client,
		bucket:      cfg.GetStorageBucket(),
		publicBase:  publicBase(cfg),
		maxFileSize: cfg.GetStorageMaxFileSize(),
	}, nil
}

func publicBase(cfg Config) string {
	scheme := "https"
	if !cfg.GetStorageUseSSL() {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, strings.TrimRight(cfg.GetStoragePublicHost(), "/"), cfg.GetStorageBucket())
}

// EnsureBucketExists creates the bucket if it doesn't exist.
func (s *MinIOService) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}

	return nil
}

// Upload validates and stores a file, then returns its public URL.
func (s *MinIOService) Upload(ctx context.Context, file File) (*Object, error) {
	if err := s.ValidateContentType(file.ContentType); err != nil {
		return nil, err
	}
	if err := s.ValidateFileSize(file.Size); err != nil {
		return nil, err
	}

	key := ObjectKey(file.Name)
	_, err := s.client.PutObject(ctx, s.bucket, key, file.Reader, file.Size, minio.PutObjectOptions{
		ContentType:  file.ContentType,
		UserMetadata: map[string]string{aclHeader: publicRead},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file %s: %w", key, err)
	}

	return &Object{
		Key:         key,
		URL:         s.publicBase + "/" + key,
		Name:        file.Name,
		ContentType: file.ContentType,
		Size:        file.Size,
	}, nil
}

// Delete removes an object from storage.
func (s *MinIOService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrObjectNotFound
	}
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == noSuchKey {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// KeyFromURL returns the last path segment of a public object URL.
func (s *MinIOService) KeyFromURL(rawURL string) string {
	return KeyFromURL(rawURL)
}

// GetMaxFileSize returns the configured maximum file size in bytes.
func (s *MinIOService) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// ObjectKey builds a collision-free key: a random UUID, a dash, and the
// sanitized original file name.
func ObjectKey(fileName string) string {
	return uuid.NewString() + "-" + sanitize.FileName(fileName)
}

// KeyFromURL returns the last path segment of rawURL, or "" when there is none.
func KeyFromURL(rawURL string) string {
	if strings.TrimSpace(rawURL) == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

var _ StorageService = (*MinIOService)(nil)
