package repository

import (
	"context"
	"time"
)

// Topic is a discussion topic owned by an account.
type Topic struct {
	ID        string     `json:"-"`
	AccountID string     `json:"account_id"`
	Topic     string     `json:"topic"`
	TopicDate *time.Time `json:"topic_date,omitempty"`
}

// CreateParams contains parameters for creating a topic.
type CreateParams struct {
	AccountID string
	Topic     string
}

// UpdateParams contains the optional changes to a topic.
type UpdateParams struct {
	Topic *string
}

// TopicReader provides read operations for topics.
type TopicReader interface {
	GetByID(ctx context.Context, id string) (Topic, error)
	List(ctx context.Context) ([]Topic, error)
	ListByAccount(ctx context.Context, accountID string) ([]Topic, error)
}

// TopicWriter provides write operations for topics. Writes stamp topic_date.
type TopicWriter interface {
	Create(ctx context.Context, params CreateParams) (Topic, error)
	Update(ctx context.Context, id string, params UpdateParams) error
	Delete(ctx context.Context, id string) error
}

// Repository combines all topic repository operations.
type Repository interface {
	TopicReader
	TopicWriter
}
