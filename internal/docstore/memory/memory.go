// Package memory is an in-process docstore backend for development and tests.
package memory

import (
	"context"
	"reflect"
	"sync"
	"time"

	"capstone_backend/internal/docstore"

	"github.com/google/uuid"
)

type collection struct {
	order []string
	docs  map[string]map[string]any
}

// Store keeps documents in memory. Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	now         func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		collections: make(map[string]*collection),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the clock used for server timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) coll(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]map[string]any)}
		s.collections[name] = c
	}
	return c
}

func clone(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func (s *Store) Get(_ context.Context, name, id string) (docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return docstore.Document{}, docstore.ErrNotFound
	}
	data, ok := c.docs[id]
	if !ok {
		return docstore.Document{}, docstore.ErrNotFound
	}
	return docstore.Document{ID: id, Data: clone(data)}, nil
}

func (s *Store) List(_ context.Context, name string) ([]docstore.Document, error) {
	return s.filter(name, func(map[string]any) bool { return true }), nil
}

func (s *Store) Where(_ context.Context, name, field string, value any) ([]docstore.Document, error) {
	return s.filter(name, func(data map[string]any) bool {
		v, ok := data[field]
		return ok && reflect.DeepEqual(v, value)
	}), nil
}

func (s *Store) filter(name string, keep func(map[string]any) bool) []docstore.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]docstore.Document, 0)
	c, ok := s.collections[name]
	if !ok {
		return out
	}
	for _, id := range c.order {
		data := c.docs[id]
		if keep(data) {
			out = append(out, docstore.Document{ID: id, Data: clone(data)})
		}
	}
	return out
}

func (s *Store) Add(_ context.Context, name string, data map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	c := s.coll(name)
	c.order = append(c.order, id)
	c.docs[id] = docstore.ResolveTimestamps(data, s.now())
	return id, nil
}

func (s *Store) Set(_ context.Context, name, id string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(name)
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = docstore.ResolveTimestamps(data, s.now())
	return nil
}

func (s *Store) Update(_ context.Context, name, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return docstore.ErrNotFound
	}
	current, ok := c.docs[id]
	if !ok {
		return docstore.ErrNotFound
	}
	merged := clone(current)
	for k, v := range docstore.ResolveTimestamps(fields, s.now()) {
		merged[k] = v
	}
	c.docs[id] = merged
	return nil
}

func (s *Store) Delete(_ context.Context, name, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return docstore.ErrNotFound
	}
	if _, ok := c.docs[id]; !ok {
		return docstore.ErrNotFound
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

var _ docstore.Store = (*Store)(nil)
