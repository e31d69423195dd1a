package handler

import (
	"net/http"

	"capstone_backend/internal/comments/service"
	"capstone_backend/internal/comments/transport"
	"capstone_backend/platform/apperr"
	"capstone_backend/platform/httpkit"
	"capstone_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "Invalid data format"
	msgValidationFailed = "Validation error"
	shapeDetails        = "Data must contain exactly 3 string fields: account_id, topic_id, and comment."
)

// Handler handles HTTP requests for comments.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List returns every comment.
// GET /api/v1/comment
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.List(c, "Comments retrieved successfully", result, len(result))
}

// GetByID returns one comment.
// GET /api/v1/comment/:id
func (h *Handler) GetByID(c *gin.Context) {
	result, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, "Comment retrieved successfully", result)
}

// GET /api/v1/comment/account/:uid
func (h *Handler) ListByAccount(c *gin.Context) {
	result, err := h.svc.ListByAccount(c.Request.Context(), c.Param("uid"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.List(c, "Comments retrieved successfully", result, len(result))
}

// GET /api/v1/comment/topic/:topic_id
func (h *Handler) ListByTopic(c *gin.Context) {
	result, err := h.svc.ListByTopic(c.Request.Context(), c.Param("topic_id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.List(c, "Comments retrieved successfully", result, len(result))
}

// Create posts a comment for the caller.
// POST /api/v1/comment
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateCommentRequest
	if err := httpkit.BindStrict(c, &req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "", shapeDetails)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "", shapeDetails)
		return
	}

	result, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, "Comment added successfully", result)
}

// Update edits the text of a comment.
// PUT /api/v1/comment/:id
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.UpdateCommentRequest
	if err := httpkit.BindStrict(c, &req); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(validator.FieldErrors(err)))
		return
	}

	result, err := h.svc.Update(c.Request.Context(), identity.UserID(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, "Comment updated successfully", result)
}

// Delete removes a comment.
// DELETE /api/v1/comment/:id
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Delete(c.Request.Context(), identity.UserID(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, "Comment deleted successfully", result)
}
