package handler

import (
	"capstone_backend/internal/articles/service"
	"capstone_backend/internal/articles/transport"
	uploads "capstone_backend/internal/uploads/service"
	"capstone_backend/platform/apperr"
	"capstone_backend/platform/httpkit"
	"capstone_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	fieldTitle            = "title"
	fieldArticleLink      = "article_link"
	fieldShortDescription = "short_description"
	fieldImage            = "image_url"

	msgValidationFailed = "Validation error"
)

// Handler handles HTTP requests for articles.
type Handler struct {
	svc         *service.Service
	val         *validator.Validator
	maxFileSize int64
}

func New(svc *service.Service, val *validator.Validator, maxFileSize int64) *Handler {
	return &Handler{svc: svc, val: val, maxFileSize: maxFileSize}
}

// List returns every article. Public.
// GET /api/v1/article
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.List(c, "Articles retrieved successfully", result, len(result))
}

// GetByID returns one article. Public.
// GET /api/v1/article/:id
func (h *Handler) GetByID(c *gin.Context) {
	result, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, "Article retrieved successfully", result)
}

// Create publishes an article with a cover image.
// POST /api/v1/article
func (h *Handler) Create(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	if err := httpkit.CheckFormFields(c, fieldTitle, fieldArticleLink, fieldShortDescription, fieldImage); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	req := transport.CreateArticleRequest{
		Title:            c.PostForm(fieldTitle),
		ArticleLink:      c.PostForm(fieldArticleLink),
		ShortDescription: c.PostForm(fieldShortDescription),
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(validator.FieldErrors(err)))
		return
	}

	file, err := httpkit.ReadFormFile(c, fieldImage, h.maxFileSize)
	if httpkit.HandleError(c, err) {
		return
	}
	var image *uploads.Upload
	if file != nil {
		image = &uploads.Upload{Name: file.Name, ContentType: file.ContentType, Data: file.Data}
	}

	result, err := h.svc.Create(c.Request.Context(), req, image)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, "Article added successfully", result)
}
