package mocks

import (
	"context"
	"io"
	"sync"

	"capstone_backend/internal/adapters/storage"
)

// ObjectStore is an in-memory storage.StorageService.
type ObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	BaseURL     string
	MaxFileSize int64
	UploadErr   error
	DeleteErr   error

	Uploaded []storage.Object
	Deleted  []string
}

// NewObjectStore returns an empty store with a 1 MiB limit.
func NewObjectStore() *ObjectStore {
	return &ObjectStore{
		objects:     make(map[string][]byte),
		BaseURL:     "https://storage.test/bucket",
		MaxFileSize: 1 << 20,
	}
}

// Put seeds an object and returns its public URL.
func (s *ObjectStore) Put(key string, data []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return s.BaseURL + "/" + key
}

// Has reports whether key is stored.
func (s *ObjectStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

// Len returns the number of stored objects.
func (s *ObjectStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *ObjectStore) Upload(_ context.Context, file storage.File) (*storage.Object, error) {
	if err := s.ValidateContentType(file.ContentType); err != nil {
		return nil, err
	}
	if err := s.ValidateFileSize(file.Size); err != nil {
		return nil, err
	}
	if s.UploadErr != nil {
		return nil, s.UploadErr
	}

	data, err := io.ReadAll(file.Reader)
	if err != nil {
		return nil, err
	}

	key := storage.ObjectKey(file.Name)
	obj := storage.Object{
		Key:         key,
		URL:         s.Put(key, data),
		Name:        file.Name,
		ContentType: file.ContentType,
		Size:        int64(len(data)),
	}

	s.mu.Lock()
	s.Uploaded = append(s.Uploaded, obj)
	s.mu.Unlock()
	return &obj, nil
}

func (s *ObjectStore) Delete(_ context.Context, key string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(s.objects, key)
	s.Deleted = append(s.Deleted, key)
	return nil
}

func (s *ObjectStore) KeyFromURL(rawURL string) string { return storage.KeyFromURL(rawURL) }

func (s *ObjectStore) EnsureBucketExists(context.Context) error { return nil }

func (s *ObjectStore) ValidateContentType(contentType string) error {
	return storage.ValidateContentType(contentType)
}

func (s *ObjectStore) ValidateFileSize(sizeBytes int64) error {
	return storage.ValidateFileSize(sizeBytes, s.MaxFileSize)
}

func (s *ObjectStore) GetMaxFileSize() int64 { return s.MaxFileSize }

var _ storage.StorageService = (*ObjectStore)(nil)
