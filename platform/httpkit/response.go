// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"
	"time"

	"capstone_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	msgInternal = "internal server error"
)

// Meta carries response metadata.
type Meta struct {
	Count     *int      `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SuccessResponse is the envelope of every successful response.
type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    Meta        `json:"meta"`
}

// ErrorBody is the machine-readable part of an error response.
type ErrorBody struct {
	Code    int         `json:"code"`
	Reason  string      `json:"reason,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse is the envelope of every error response.
type ErrorResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Error   ErrorBody `json:"error"`
}

func newMeta() Meta {
	return Meta{Timestamp: time.Now().UTC()}
}

// Success sends a success envelope with the given status code.
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, SuccessResponse{Status: statusSuccess, Message: message, Data: data, Meta: newMeta()})
}

// OK sends a 200 success envelope.
func OK(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusOK, message, data)
}

// Created sends a 201 success envelope.
func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

// List sends a 200 success envelope with meta.count set.
func List(c *gin.Context, message string, items interface{}, count int) {
	meta := newMeta()
	meta.Count = &count
	c.JSON(http.StatusOK, SuccessResponse{Status: statusSuccess, Message: message, Data: items, Meta: meta})
}

// Error sends an error envelope with the given status code.
func Error(c *gin.Context, status int, message, reason string, details interface{}) {
	c.JSON(status, newErrorResponse(status, message, reason, details))
}

// Abort sends an error envelope and stops the handler chain.
func Abort(c *gin.Context, status int, message, reason string) {
	c.AbortWithStatusJSON(status, newErrorResponse(status, message, reason, nil))
}

func newErrorResponse(status int, message, reason string, details interface{}) ErrorResponse {
	return ErrorResponse{
		Status:  statusError,
		Message: message,
		Error:   ErrorBody{Code: status, Reason: reason, Details: details},
	}
}

// HandleError maps domain errors to HTTP responses.
// A typed *apperr.Error anywhere in the chain decides status, message and
// reason. Anything else becomes a generic 500. Server-side failures are
// attached to the gin context so RequestLogger records the cause.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	domainErr, ok := apperr.As(err)
	if !ok {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, msgInternal, "", nil)
		return true
	}

	status := domainErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	Error(c, status, domainErr.Message, domainErr.Reason, domainErr.Details)
	return true
}

// AbortWithError is HandleError for middleware: the chain stops afterwards.
func AbortWithError(c *gin.Context, err error) {
	HandleError(c, err)
	c.Abort()
}
