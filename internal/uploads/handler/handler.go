package handler

import (
	"net/http"

	"capstone_backend/internal/uploads/service"
	"capstone_backend/internal/uploads/transport"
	"capstone_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const fieldFile = "file"

// Handler handles direct file uploads.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Upload stores a single file and returns its public URL.
// POST /api/v1/upload
func (h *Handler) Upload(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	if err := httpkit.CheckFormFields(c, fieldFile); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	file, err := httpkit.ReadFormFile(c, fieldFile, h.svc.MaxFileSize())
	if httpkit.HandleError(c, err) {
		return
	}
	if file == nil {
		httpkit.Error(c, http.StatusBadRequest, "No file uploaded", "", "multipart field \"file\" is required")
		return
	}

	obj, err := h.svc.Store(c.Request.Context(), service.Upload{
		Name:        file.Name,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, "File uploaded successfully", transport.UploadResponse{
		URL:         obj.URL,
		Name:        obj.Name,
		ContentType: obj.ContentType,
		Size:        obj.Size,
	})
}
