// Package service puts object storage behind domain errors. Other modules
// reach it through their own narrow interfaces.
package service

import (
	"bytes"
	"context"
	"errors"

	"capstone_backend/internal/adapters/storage"
	"capstone_backend/platform/apperr"
	"capstone_backend/platform/logger"
)

const msgUploadFailed = "Failed to upload file"

// Upload is a file received from a client, fully buffered.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Service stores and removes public objects.
type Service struct {
	store storage.StorageService
	log   *logger.Logger
}

// New creates an uploads service over store.
func New(store storage.StorageService, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// MaxFileSize is the largest accepted upload in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.store.GetMaxFileSize()
}

// Validate checks content type and size without touching storage.
func (s *Service) Validate(upload Upload) error {
	if err := s.store.ValidateContentType(upload.ContentType); err != nil {
		return apperr.Validation("File type is not allowed").WithDetails(upload.ContentType)
	}
	if err := s.store.ValidateFileSize(int64(len(upload.Data))); err != nil {
		return apperr.Validation("Invalid file size").WithDetails(err.Error())
	}
	return nil
}

// ValidateImage is Validate restricted to image/* content.
func (s *Service) ValidateImage(upload Upload) error {
	if !storage.IsImageContentType(upload.ContentType) {
		return apperr.Validation("Only image files are allowed").WithDetails(upload.ContentType)
	}
	return s.Validate(upload)
}

// Store validates and uploads any allowed file.
func (s *Service) Store(ctx context.Context, upload Upload) (*storage.Object, error) {
	if err := s.Validate(upload); err != nil {
		return nil, err
	}

	obj, err := s.store.Upload(ctx, storage.File{
		Name:        upload.Name,
		ContentType: upload.ContentType,
		Size:        int64(len(upload.Data)),
		Reader:      bytes.NewReader(upload.Data),
	})
	if err != nil {
		if errors.Is(err, storage.ErrContentTypeNotAllowed) || errors.Is(err, storage.ErrFileSize) {
			return nil, apperr.Validation(msgUploadFailed).WithDetails(err.Error())
		}
		s.log.StorageError("upload", upload.Name, err)
		return nil, apperr.Upstream(msgUploadFailed, err)
	}

	s.log.Info("object uploaded", "key", obj.Key, "content_type", obj.ContentType, "size", obj.Size)
	return obj, nil
}

// StoreImage is Store restricted to image/* content.
func (s *Service) StoreImage(ctx context.Context, upload Upload) (*storage.Object, error) {
	if err := s.ValidateImage(upload); err != nil {
		return nil, err
	}
	return s.Store(ctx, upload)
}

// Remove deletes the object behind a public URL. An object that is already
// gone is not an error.
func (s *Service) Remove(ctx context.Context, url string) error {
	key := s.store.KeyFromURL(url)
	if key == "" {
		return nil
	}

	err := s.store.Delete(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		s.log.Warn("object already removed", "key", key)
		return nil
	}
	if err != nil {
		s.log.StorageError("delete", key, err)
		return apperr.Upstream("Failed to remove file", err)
	}

	s.log.Info("object removed", "key", key)
	return nil
}
