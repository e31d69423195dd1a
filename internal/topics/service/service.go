package service

import (
	"context"

	"capstone_backend/internal/shared/policy"
	"capstone_backend/internal/topics/repository"
	"capstone_backend/internal/topics/transport"
	"capstone_backend/platform/apperr"
	"capstone_backend/platform/logger"
)

const (
	msgCreateForbidden = "Access denied. You can only add topics for your own account."
	msgUpdateForbidden = "Access denied. You can only update your own topics."
	msgDeleteForbidden = "Access denied. You can only delete your own topics."
	msgNoAccountTopics = "No topics found for this account"
)

// Service provides business logic for topics.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new topics service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List retrieves all topics. An empty collection is not an error.
func (s *Service) List(ctx context.Context) ([]transport.TopicResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toListResponse(items), nil
}

// GetByID retrieves a topic by id.
func (s *Service) GetByID(ctx context.Context, id string) (transport.TopicResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TopicResponse{}, err
	}
	return toResponse(t), nil
}

// ListByAccount retrieves an account's topics. Unlike List, nothing found is a 404.
func (s *Service) ListByAccount(ctx context.Context, accountID string) ([]transport.TopicResponse, error) {
	items, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.NotFound(msgNoAccountTopics)
	}
	return toListResponse(items), nil
}

// Create adds a topic on behalf of callerID, who must be the named account.
func (s *Service) Create(ctx context.Context, callerID string, req transport.CreateTopicRequest) (transport.TopicResponse, error) {
	if err := policy.CheckLength("topic", *req.Topic); err != nil {
		return transport.TopicResponse{}, err
	}
	if err := policy.RequireOwner(*req.AccountID, callerID, msgCreateForbidden); err != nil {
		return transport.TopicResponse{}, err
	}

	t, err := s.repo.Create(ctx, repository.CreateParams{AccountID: *req.AccountID, Topic: *req.Topic})
	if err != nil {
		return transport.TopicResponse{}, err
	}

	s.log.Info("topic created", "id", t.ID, "account_id", t.AccountID)
	return toResponse(t), nil
}

// Update changes a topic owned by callerID.
func (s *Service) Update(ctx context.Context, callerID, id string, req transport.UpdateTopicRequest) (transport.IDResponse, error) {
	if err := policy.CheckLengthPtr("topic", req.Topic); err != nil {
		return transport.IDResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.IDResponse{}, err
	}
	if err := policy.RequireOwner(existing.AccountID, callerID, msgUpdateForbidden); err != nil {
		return transport.IDResponse{}, err
	}

	if err := s.repo.Update(ctx, id, repository.UpdateParams{Topic: req.Topic}); err != nil {
		return transport.IDResponse{}, err
	}

	s.log.Info("topic updated", "id", id)
	return transport.IDResponse{ID: id}, nil
}

// Delete removes a topic owned by callerID.
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

	s.log.Info("topic deleted", "id", id)
	return transport.IDResponse{ID: id}, nil
}

func toResponse(t repository.Topic) transport.TopicResponse {
	return transport.TopicResponse{
		ID:        t.ID,
		AccountID: t.AccountID,
		Topic:     t.Topic,
		TopicDate: t.TopicDate,
	}
}

func toListResponse(items []repository.Topic) []transport.TopicResponse {
	out := make([]transport.TopicResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toResponse(t))
	}
	return out
}
