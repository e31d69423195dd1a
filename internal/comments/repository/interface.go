package repository

import (
	"context"
	"time"
)

// Comment is a reply posted by an account under a topic.
type Comment struct {
	ID          string     `json:"-"`
	AccountID   string     `json:"account_id"`
	TopicID     string     `json:"topic_id"`
	Comment     string     `json:"comment"`
	CommentDate *time.Time `json:"comment_date,omitempty"`
}

type CreateParams struct {
	AccountID string
	TopicID   string
	Comment   string
}

type UpdateParams struct {
	Comment *string
}

// CommentReader provides read operations for comments.
type CommentReader interface {
	GetByID(ctx context.Context, id string) (Comment, error)
	List(ctx context.Context) ([]Comment, error)
	ListByAccount(ctx context.Context, accountID string) ([]Comment, error)
	ListByTopic(ctx context.Context, topicID string) ([]Comment, error)
}

// CommentWriter provides write operations for comments. Writes stamp comment_date.
type CommentWriter interface {
	Create(ctx context.Context, params CreateParams) (Comment, error)
	Update(ctx context.Context, id string, params UpdateParams) error
	Delete(ctx context.Context, id string) error
}

// Repository combines all comment repository operations.
type Repository interface {
	CommentReader
	CommentWriter
}
