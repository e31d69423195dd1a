// Package firestore backs the document store with Cloud Firestore.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"capstone_backend/internal/docstore"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store is the Firestore-backed document store.
type Store struct {
	client *firestore.Client
}

// New wraps an open Firestore client.
func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if isNotFound(err) {
		return docstore.Document{}, docstore.ErrNotFound
	}
	if err != nil {
		return docstore.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return docstore.Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *Store) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	snaps, err := s.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return toDocuments(snaps), nil
}

func (s *Store) Where(ctx context.Context, collection, field string, value any) ([]docstore.Document, error) {
	snaps, err := s.client.Collection(collection).Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query %s where %s: %w", collection, field, err)
	}
	return toDocuments(snaps), nil
}

func toDocuments(snaps []*firestore.DocumentSnapshot) []docstore.Document {
	docs := make([]docstore.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, docstore.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs
}

func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, docstore.ResolveTimestamps(data, firestore.ServerTimestamp))
	if err != nil {
		return "", fmt.Errorf("add to %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data map[string]any) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, docstore.ResolveTimestamps(data, firestore.ServerTimestamp))
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	resolved := docstore.ResolveTimestamps(fields, firestore.ServerTimestamp)
	updates := make([]firestore.Update, 0, len(resolved))
	for _, key := range docstore.SortedKeys(resolved) {
		updates = append(updates, firestore.Update{Path: key, Value: resolved[key]})
	}

	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if isNotFound(err) {
		return docstore.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return docstore.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Ping lists at most one root collection, which needs a working connection
// and valid credentials but reads no documents.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.Collections(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ docstore.Store = (*Store)(nil)
