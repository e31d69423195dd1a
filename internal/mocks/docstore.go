package mocks

import (
	"context"

	"capstone_backend/internal/docstore"
)

// FailingStore wraps a docstore.Store and fails selected operations.
type FailingStore struct {
	docstore.Store

	GetErr    error
	ListErr   error
	AddErr    error
	SetErr    error
	UpdateErr error
	DeleteErr error
}

func (s *FailingStore) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	if s.GetErr != nil {
		return docstore.Document{}, s.GetErr
	}
	return s.Store.Get(ctx, collection, id)
}

func (s *FailingStore) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return s.Store.List(ctx, collection)
}

func (s *FailingStore) Where(ctx context.Context, collection, field string, value any) ([]docstore.Document, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return s.Store.Where(ctx, collection, field, value)
}

func (s *FailingStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	if s.AddErr != nil {
		return "", s.AddErr
	}
	return s.Store.Add(ctx, collection, data)
}

func (s *FailingStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	return s.Store.Set(ctx, collection, id, data)
}

func (s *FailingStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	return s.Store.Update(ctx, collection, id, fields)
}

func (s *FailingStore) Delete(ctx context.Context, collection, id string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	return s.Store.Delete(ctx, collection, id)
}
