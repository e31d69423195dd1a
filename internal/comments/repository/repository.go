package repository

import (
	"context"
	"errors"

	"capstone_backend/internal/docstore"
	"capstone_backend/platform/apperr"
)

const (
	fieldAccountID   = "account_id"
	fieldTopicID     = "topic_id"
	fieldComment     = "comment"
	fieldCommentDate = "comment_date"

	commentNotFoundMessage = "Comment not found"
)

// Repo implements Repository on the document store.
type Repo struct {
	store docstore.Store
}

// New creates a new comments repository.
func New(store docstore.Store) *Repo {
	return &Repo{store: store}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) GetByID(ctx context.Context, id string) (Comment, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionComments, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return Comment{}, apperr.NotFound(commentNotFoundMessage)
	}
	if err != nil {
		return Comment{}, apperr.Upstream("Failed to retrieve comment", err)
	}
	return decode(doc)
}

func (r *Repo) List(ctx context.Context) ([]Comment, error) {
	docs, err := r.store.List(ctx, docstore.CollectionComments)
	if err != nil {
		return nil, apperr.Upstream("Failed to retrieve comments", err)
	}
	return decodeAll(docs)
}

func (r *Repo) ListByAccount(ctx context.Context, accountID string) ([]Comment, error) {
	return r.where(ctx, fieldAccountID, accountID)
}

func (r *Repo) ListByTopic(ctx context.Context, topicID string) ([]Comment, error) {
	return r.where(ctx, fieldTopicID, topicID)
}

func (r *Repo) where(ctx context.Context, field, value string) ([]Comment, error) {
	docs, err := r.store.Where(ctx, docstore.CollectionComments, field, value)
	if err != nil {
		return nil, apperr.Upstream("Failed to retrieve comments", err)
	}
	return decodeAll(docs)
}

func (r *Repo) Create(ctx context.Context, params CreateParams) (Comment, error) {
	id, err := r.store.Add(ctx, docstore.CollectionComments, map[string]any{
		fieldAccountID:   params.AccountID,
		fieldTopicID:     params.TopicID,
		fieldComment:     params.Comment,
		fieldCommentDate: docstore.ServerTimestamp,
	})
	if err != nil {
		return Comment{}, apperr.Upstream("Failed to add comment", err)
	}
	return Comment{ID: id, AccountID: params.AccountID, TopicID: params.TopicID, Comment: params.Comment}, nil
}

func (r *Repo) Update(ctx context.Context, id string, params UpdateParams) error {
	fields := map[string]any{fieldCommentDate: docstore.ServerTimestamp}
	if params.Comment != nil {
		fields[fieldComment] = *params.Comment
	}

	err := r.store.Update(ctx, docstore.CollectionComments, id, fields)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.NotFound(commentNotFoundMessage)
	}
	if err != nil {
		return apperr.Upstream("Failed to update comment", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, docstore.CollectionComments, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.NotFound(commentNotFoundMessage)
	}
	if err != nil {
		return apperr.Upstream("Failed to delete comment", err)
	}
	return nil
}

func decode(doc docstore.Document) (Comment, error) {
	var c Comment
	if err := doc.DataTo(&c); err != nil {
		return Comment{}, apperr.Wrap(apperr.KindInternal, "stored comment is unreadable", err)
	}
	c.ID = doc.ID
	return c, nil
}

func decodeAll(docs []docstore.Document) ([]Comment, error) {
	out := make([]Comment, 0, len(docs))
	for _, doc := range docs {
		c, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
