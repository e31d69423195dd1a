package handler

import (
	"net/http"

	"capstone_backend/internal/auth/service"
	"capstone_backend/internal/auth/transport"
	authvalidator "capstone_backend/internal/auth/validator"
	uploads "capstone_backend/internal/uploads/service"
	"capstone_backend/platform/apperr"
	"capstone_backend/platform/httpkit"
	"capstone_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgValidationFailed = "Validation error"

	fieldDisplayName  = "displayName"
	fieldImageProfile = "imageProfile"
)

// Handler handles account and session endpoints.
type Handler struct {
	svc         *service.Service
	val         *validator.Validator
	maxFileSize int64
}

func New(svc *service.Service, val *validator.Validator, maxFileSize int64) *Handler {
	return &Handler{svc: svc, val: val, maxFileSize: maxFileSize}
}

// Register creates an identity and its account document.
// POST /api/v1/register
func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.Register(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, "User registered successfully", result)
}

// Login signs in with email and password.
// POST /api/v1/login
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, "User authenticated successfully", result)
}

// Logout revokes the caller's sessions.
// POST /api/v1/logout
func (h *Handler) Logout(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Logout(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, "Logout successful. Token revoked.", result)
}

// Me returns the decoded principal.
// GET /api/v1/me
func (h *Handler) Me(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	principal, ok := identity.(*httpkit.Principal)
	if !ok {
		httpkit.Abort(c, http.StatusUnauthorized, "authentication required", apperr.ReasonMissingToken)
		return
	}
	httpkit.OK(c, "This is a protected route", h.svc.Me(principal))
}

// GetProfile returns an account document.
// GET /api/v1/profile/:uid
func (h *Handler) GetProfile(c *gin.Context) {
	result, err := h.svc.GetProfile(c.Request.Context(), c.Param("uid"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, "Profile retrieved successfully", result)
}

// EditProfile updates display name and/or picture from a multipart form.
// PUT /api/v1/profile/:uid
func (h *Handler) EditProfile(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := httpkit.CheckFormFields(c, fieldDisplayName, fieldImageProfile); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	var displayName *string
	if value, ok := httpkit.FormValue(c, fieldDisplayName); ok && value != "" {
		displayName = &value
	}

	file, err := httpkit.ReadFormFile(c, fieldImageProfile, h.maxFileSize)
	if httpkit.HandleError(c, err) {
		return
	}
	var image *uploads.Upload
	if file != nil {
		image = &uploads.Upload{Name: file.Name, ContentType: file.ContentType, Data: file.Data}
	}

	result, err := h.svc.EditProfile(c.Request.Context(), identity.UserID(), c.Param("uid"), displayName, image)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, "Profile updated successfully", result)
}

func (h *Handler) bind(c *gin.Context, dst interface{}) bool {
	if err := httpkit.BindStrict(c, dst); err != nil {
		httpkit.HandleError(c, err)
		return false
	}
	if err := h.val.Struct(dst); err != nil {
		if validator.HasTag(err, authvalidator.TagStrongPassword) {
			httpkit.HandleError(c, apperr.Validation(authvalidator.PasswordPolicy).WithReason(apperr.ReasonPasswordPolicy))
			return false
		}
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(validator.FieldErrors(err)))
		return false
	}
	return true
}
