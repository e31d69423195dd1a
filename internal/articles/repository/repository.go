// Package repository stores articles in the document store.
package repository

import (
	"context"
	"errors"
	"time"

	"capstone_backend/internal/docstore"
	"capstone_backend/platform/apperr"
)

// Article is a curated external link with a cover image.
type Article struct {
	ID               string     `json:"-"`
	Title            string     `json:"title"`
	ArticleLink      string     `json:"article_link"`
	ShortDescription string     `json:"short_description"`
	ImageURL         string     `json:"image_url"`
	TopicDate        *time.Time `json:"topic_date,omitempty"`
}

type CreateParams struct {
	Title            string
	ArticleLink      string
	ShortDescription string
	ImageURL         string
}

// Repository provides article persistence.
type Repository interface {
	GetByID(ctx context.Context, id string) (Article, error)
	List(ctx context.Context) ([]Article, error)
	Create(ctx context.Context, params CreateParams) (Article, error)
}

// Repo implements Repository on the document store.
type Repo struct {
	store docstore.Store
}

func New(store docstore.Store) *Repo {
	return &Repo{store: store}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) GetByID(ctx context.Context, id string) (Article, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionArticles, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return Article{}, apperr.NotFound("Article not found")
	}
	if err != nil {
		return Article{}, apperr.Upstream("Failed to retrieve article", err)
	}
	return decode(doc)
}

func (r *Repo) List(ctx context.Context) ([]Article, error) {
	docs, err := r.store.List(ctx, docstore.CollectionArticles)
	if err != nil {
		return nil, apperr.Upstream("Failed to retrieve articles", err)
	}

	out := make([]Article, 0, len(docs))
	for _, doc := range docs {
		a, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Create stores the article and stamps topic_date.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Article, error) {
	id, err := r.store.Add(ctx, docstore.CollectionArticles, map[string]any{
		"title":             params.Title,
		"article_link":      params.ArticleLink,
		"short_description": params.ShortDescription,
		"image_url":         params.ImageURL,
		"topic_date":        docstore.ServerTimestamp,
	})
	if err != nil {
		return Article{}, apperr.Upstream("Failed to add article", err)
	}
	return Article{
		ID:               id,
		Title:            params.Title,
		ArticleLink:      params.ArticleLink,
		ShortDescription: params.ShortDescription,
		ImageURL:         params.ImageURL,
	}, nil
}

func decode(doc docstore.Document) (Article, error) {
	var a Article
	if err := doc.DataTo(&a); err != nil {
		return Article{}, apperr.Wrap(apperr.KindInternal, "stored article is unreadable", err)
	}
	a.ID = doc.ID
	return a, nil
}
