package transport

import "time"

// CreateArticleRequest holds the text fields of the multipart create form.
// The image travels separately as the image_url file part.
type CreateArticleRequest struct {
	Title            string `validate:"required"`
	ArticleLink      string `validate:"required,url"`
	ShortDescription string `validate:"required"`
}

type ArticleResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	ArticleLink      string     `json:"article_link"`
	ShortDescription string     `json:"short_description"`
	ImageURL         string     `json:"image_url"`
	TopicDate        *time.Time `json:"topic_date,omitempty"`
}
