package transport

import "time"

// CreateTopicRequest is the exact body of POST /topic.
type CreateTopicRequest struct {
	AccountID *string `json:"account_id" validate:"required,min=1"`
	Topic     *string `json:"topic" validate:"required,min=1"`
}

// UpdateTopicRequest lists the only mutable field of a topic.
type UpdateTopicRequest struct {
	Topic *string `json:"topic" validate:"omitnil,min=1"`
}

type TopicResponse struct {
	ID        string     `json:"id"`
	AccountID string     `json:"account_id"`
	Topic     string     `json:"topic"`
	TopicDate *time.Time `json:"topic_date,omitempty"`
}

type IDResponse struct {
	ID string `json:"id"`
}
