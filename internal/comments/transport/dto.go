package transport

import "time"

// CreateCommentRequest is the exact body of POST /comment.
type CreateCommentRequest struct {
	AccountID *string `json:"account_id" validate:"required,min=1"`
	TopicID   *string `json:"topic_id" validate:"required,min=1"`
	Comment   *string `json:"comment" validate:"required,min=1"`
}

// UpdateCommentRequest lists the only mutable field of a comment.
type UpdateCommentRequest struct {
	Comment *string `json:"comment" validate:"omitnil,min=1"`
}

type CommentResponse struct {
	ID          string     `json:"id"`
	AccountID   string     `json:"account_id"`
	TopicID     string     `json:"topic_id"`
	Comment     string     `json:"comment"`
	CommentDate *time.Time `json:"comment_date,omitempty"`
}

type IDResponse struct {
	ID string `json:"id"`
}
