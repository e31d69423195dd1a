// Package docstore defines the document store the resource modules persist to:
// named collections of schemaless JSON-like documents addressed by id.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
)

// Collection names.
const (
	CollectionTopics   = "topics"
	CollectionComments = "comment"
	CollectionArticles = "article"
	CollectionAccounts = "accounts"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

type serverTimestamp struct{}

// ServerTimestamp, used as a value in a data map, is replaced by the backend
// with the time the write is applied.
var ServerTimestamp = serverTimestamp{}

// Document is a stored document with its id.
type Document struct {
	ID   string
	Data map[string]any
}

// DataTo decodes the document data into v, which should be a pointer to a
// struct with json tags.
func (d Document) DataTo(v any) error {
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// Store is implemented by every backend.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	List(ctx context.Context, collection string) ([]Document, error)
	// Where returns the documents whose top-level field equals value.
	Where(ctx context.Context, collection, field string, value any) ([]Document, error)
	// Add stores data under a store-generated id and returns that id.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	// Set creates or replaces the document with the given id.
	Set(ctx context.Context, collection, id string, data map[string]any) error
	// Update merges fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
}

// ResolveTimestamps returns a copy of data with every ServerTimestamp value
// replaced by now.
func ResolveTimestamps(data map[string]any, now any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = now
			continue
		}
		out[k] = v
	}
	return out
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
