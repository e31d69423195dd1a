package service

import (
	"context"

	"capstone_backend/internal/comments/repository"
	"capstone_backend/internal/comments/transport"
	"capstone_backend/internal/shared/policy"
	"capstone_backend/platform/apperr"
	"capstone_backend/platform/logger"
)

const (
	msgCreateForbidden = "Access denied. You can only add comments for your own account."
	msgUpdateForbidden = "Access denied. You can only update your own comments."
	msgDeleteForbidden = "Access denied. You can only delete your own comments."
	msgNoAccountItems  = "No comments found for the given user ID"
	msgNoTopicItems    = "No comments found for the given topic ID"
)

// Service provides business logic for comments.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new comments service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) List(ctx context.Context) ([]transport.CommentResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toListResponse(items), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (transport.CommentResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.CommentResponse{}, err
	}
	return toResponse(c), nil
}

// ListByAccount returns 404 when the account has no comments.
func (s *Service) ListByAccount(ctx context.Context, accountID string) ([]transport.CommentResponse, error) {
	items, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.NotFound(msgNoAccountItems).WithDetails("No comments associated with account_id: " + accountID)
	}
	return toListResponse(items), nil
}

// ListByTopic returns 404 when the topic has no comments.
func (s *Service) ListByTopic(ctx context.Context, topicID string) ([]transport.CommentResponse, error) {
	items, err := s.repo.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.NotFound(msgNoTopicItems).WithDetails("No comments associated with topic_id: " + topicID)
	}
	return toListResponse(items), nil
}

// Create posts a comment on behalf of callerID, who must be the named account.
func (s *Service) Create(ctx context.Context, callerID string, req transport.CreateCommentRequest) (transport.CommentResponse, error) {
	if err := policy.CheckLength("comment", *req.Comment); err != nil {
		return transport.CommentResponse{}, err
	}
	if err := policy.RequireOwner(*req.AccountID, callerID, msgCreateForbidden); err != nil {
		return transport.CommentResponse{}, err
	}

	c, err := s.repo.Create(ctx, repository.CreateParams{
		AccountID: *req.AccountID,
		TopicID:   *req.TopicID,
		Comment:   *req.Comment,
	})
	if err != nil {
		return transport.CommentResponse{}, err
	}

	s.log.Info("comment created", "id", c.ID, "topic_id", c.TopicID, "account_id", c.AccountID)
	return toResponse(c), nil
}

func (s *Service) Update(ctx context.Context, callerID, id string, req transport.UpdateCommentRequest) (transport.IDResponse, error) {
	if err := policy.CheckLengthPtr("comment", req.Comment); err != nil {
		return transport.IDResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.IDResponse{}, err
	}
	if err := policy.RequireOwner(existing.AccountID, callerID, msgUpdateForbidden); err != nil {
		return transport.IDResponse{}, err
	}

	if err := s.repo.Update(ctx, id, repository.UpdateParams{Comment: req.Comment}); err != nil {
		return transport.IDResponse{}, err
	}

	s.log.Info("comment updated", "id", id)
	return transport.IDResponse{ID: id}, nil
}

func (s *Service) Delete(ctx context.Context, callerID, id string) (transport.IDResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.IDResponse{}, err
	}
	if err := policy.RequireOwner(existing.AccountID, callerID, msgDeleteForbidden); err != nil {
		return transport.IDResponse{}, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return transport.IDResponse{}, err
	}

	s.log.Info("comment deleted", "id", id)
	return transport.IDResponse{ID: id}, nil
}

func toResponse(c repository.Comment) transport.CommentResponse {
	return transport.CommentResponse{
		ID:          c.ID,
		AccountID:   c.AccountID,
		TopicID:     c.TopicID,
		Comment:     c.Comment,
		CommentDate: c.CommentDate,
	}
}

func toListResponse(items []repository.Comment) []transport.CommentResponse {
	out := make([]transport.CommentResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toResponse(c))
	}
	return out
}
