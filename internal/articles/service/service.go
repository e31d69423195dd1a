package service

import (
	"context"

	"capstone_backend/internal/adapters/storage"
	"capstone_backend/internal/articles/repository"
	"capstone_backend/internal/articles/transport"
	"capstone_backend/internal/shared/policy"
	uploads "capstone_backend/internal/uploads/service"
	"capstone_backend/platform/apperr"
	"capstone_backend/platform/logger"
)

// ImageStore uploads cover images and removes them again.
type ImageStore interface {
	StoreImage(ctx context.Context, upload uploads.Upload) (*storage.Object, error)
	Remove(ctx context.Context, url string) error
}

// Service provides business logic for articles.
type Service struct {
	repo   repository.Repository
	images ImageStore
	log    *logger.Logger
}

func New(repo repository.Repository, images ImageStore, log *logger.Logger) *Service {
	return &Service{repo: repo, images: images, log: log}
}

func (s *Service) List(ctx context.Context) ([]transport.ArticleResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ArticleResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toResponse(a))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (transport.ArticleResponse, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ArticleResponse{}, err
	}
	return toResponse(a), nil
}

// Create uploads the cover image, then writes the document. A failed write
// removes the uploaded image again.
func (s *Service) Create(ctx context.Context, req transport.CreateArticleRequest, image *uploads.Upload) (transport.ArticleResponse, error) {
	if err := policy.CheckLength("short_description", req.ShortDescription); err != nil {
		return transport.ArticleResponse{}, err
	}
	if image == nil {
		return transport.ArticleResponse{}, apperr.Validation("No file uploaded").WithDetails("image_url file is required")
	}

	obj, err := s.images.StoreImage(ctx, *image)
	if err != nil {
		return transport.ArticleResponse{}, err
	}

	a, err := s.repo.Create(ctx, repository.CreateParams{
		Title:            req.Title,
		ArticleLink:      req.ArticleLink,
		ShortDescription: req.ShortDescription,
		ImageURL:         obj.URL,
	})
	if err != nil {
		if rmErr := s.images.Remove(ctx, obj.URL); rmErr != nil {
			s.log.Error("failed to remove orphaned article image", "key", obj.Key, "error", rmErr)
		}
		return transport.ArticleResponse{}, err
	}

	s.log.Info("article created", "id", a.ID, "image", obj.Key)
	return toResponse(a), nil
}

func toResponse(a repository.Article) transport.ArticleResponse {
	return transport.ArticleResponse{
		ID:               a.ID,
		Title:            a.Title,
		ArticleLink:      a.ArticleLink,
		ShortDescription: a.ShortDescription,
		ImageURL:         a.ImageURL,
		TopicDate:        a.TopicDate,
	}
}
