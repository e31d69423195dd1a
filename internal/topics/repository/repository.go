package repository

import (
	"context"
	"errors"

	"capstone_backend/internal/docstore"
	"capstone_backend/platform/apperr"
)

const (
	fieldAccountID = "account_id"
	fieldTopic     = "topic"
	fieldTopicDate = "topic_date"

	topicNotFoundMessage = "Topic not found"
)

// Repo implements Repository on the document store.
type Repo struct {
	store docstore.Store
}

// New creates a new topics repository.
func New(store docstore.Store) *Repo {
	return &Repo{store: store}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a topic by its document id.
func (r *Repo) GetByID(ctx context.Context, id string) (Topic, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionTopics, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return Topic{}, apperr.NotFound(topicNotFoundMessage)
		}
		return Topic{}, apperr.Upstream("Failed to retrieve topic", err)
	}
	return decode(doc)
}

// List retrieves every topic.
func (r *Repo) List(ctx context.Context) ([]Topic, error) {
	docs, err := r.store.List(ctx, docstore.CollectionTopics)
	if err != nil {
		return nil, apperr.Upstream("Failed to retrieve topics", err)
	}
	return decodeAll(docs)
}

// ListByAccount retrieves the topics whose account_id equals accountID.
func (r *Repo) ListByAccount(ctx context.Context, accountID string) ([]Topic, error) {
	docs, err := r.store.Where(ctx, docstore.CollectionTopics, fieldAccountID, accountID)
	if err != nil {
		return nil, apperr.Upstream("Failed to retrieve topics", err)
	}
	return decodeAll(docs)
}

// Create inserts a topic under a store-generated id.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Topic, error) {
	id, err := r.store.Add(ctx, docstore.CollectionTopics, map[string]any{
		fieldAccountID: params.AccountID,
		fieldTopic:     params.Topic,
		fieldTopicDate: docstore.ServerTimestamp,
	})
	if err != nil {
		return Topic{}, apperr.Upstream("Failed to add topic", err)
	}
	return Topic{ID: id, AccountID: params.AccountID, Topic: params.Topic}, nil
}

// Update merges the given changes and restamps topic_date.
func (r *Repo) Update(ctx context.Context, id string, params UpdateParams) error {
	fields := map[string]any{fieldTopicDate: docstore.ServerTimestamp}
	if params.Topic != nil {
		fields[fieldTopic] = *params.Topic
	}

	err := r.store.Update(ctx, docstore.CollectionTopics, id, fields)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.NotFound(topicNotFoundMessage)
	}
	if err != nil {
		return apperr.Upstream("Failed to update topic", err)
	}
	return nil
}

// Delete removes a topic.
func (r *Repo) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, docstore.CollectionTopics, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.NotFound(topicNotFoundMessage)
	}
	if err != nil {
		return apperr.Upstream("Failed to delete topic", err)
	}
	return nil
}

func decode(doc docstore.Document) (Topic, error) {
	var t Topic
	if err := doc.DataTo(&t); err != nil {
		return Topic{}, apperr.Wrap(apperr.KindInternal, "stored topic is unreadable", err)
	}
	t.ID = doc.ID
	return t, nil
}

func decodeAll(docs []docstore.Document) ([]Topic, error) {
	out := make([]Topic, 0, len(docs))
	for _, doc := range docs {
		t, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
