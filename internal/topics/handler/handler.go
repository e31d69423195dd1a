package handler

import (
	"net/http"

	"capstone_backend/internal/topics/service"
	"capstone_backend/internal/topics/transport"
	"capstone_backend/platform/apperr"
	"capstone_backend/platform/httpkit"
	"capstone_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for topics.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const msgInvalidTopic = "Invalid data format. Data must contain only account_id and topic as strings."

// New creates a new topics handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves all topics.
// GET /api/v1/topic
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.List(c, "Topics retrieved successfully", result, len(result))
}

// GetByID retrieves a topic by id.
// GET /api/v1/topic/:id
func (h *Handler) GetByID(c *gin.Context) {
	result, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, "Topic retrieved successfully", result)
}

// ListByAccount retrieves the topics of one account.
// GET /api/v1/topic/account/:uid
func (h *Handler) ListByAccount(c *gin.Context) {
	result, err := h.svc.ListByAccount(c.Request.Context(), c.Param("uid"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.List(c, "Topics retrieved successfully", result, len(result))
}

// Create creates a topic for the caller.
// POST /api/v1/topic
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateTopicRequest
	if err := httpkit.BindStrict(c, &req); err != nil {
		httpkit.HandleError(c, invalid(err))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidTopic, "", validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, "Topic added successfully!", result)
}

// Update changes the text of a topic.
// PUT /api/v1/topic/:id
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.UpdateTopicRequest
	if err := httpkit.BindStrict(c, &req); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Validation error", "", validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Update(c.Request.Context(), identity.UserID(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, "Topic updated successfully", result)
}

// Delete removes a topic.
// DELETE /api/v1/topic/:id
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Delete(c.Request.Context(), identity.UserID(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, "Topic deleted successfully", result)
}

// invalid keeps the binding details but uses the topic-specific message.
func invalid(err error) error {
	if e, ok := apperr.As(err); ok {
		return apperr.Validation(msgInvalidTopic).WithDetails(e.Details)
	}
	return err
}
