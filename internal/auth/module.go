// Package auth provides the accounts module: registration, password sign-in,
// logout, and profile management. Tokens are issued and verified by the
// identity provider; this module never handles them beyond passing them on.
package auth

import (
	"fmt"

	"capstone_backend/internal/auth/handler"
	"capstone_backend/internal/auth/repository"
	"capstone_backend/internal/auth/service"
	authvalidator "capstone_backend/internal/auth/validator"
	"capstone_backend/internal/docstore"
	apphttp "capstone_backend/internal/http"
	"capstone_backend/internal/idp"
	"capstone_backend/platform/logger"
	"capstone_backend/platform/validator"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(provider idp.Provider, store docstore.Store, images service.ImageStore, maxFileSize int64, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := authvalidator.Register(val); err != nil {
		return nil, fmt.Errorf("register auth validators: %w", err)
	}

	svc := service.New(provider, repository.New(store), images, log)
	return &Module{
		handler: handler.New(svc, val, maxFileSize),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Credential endpoints with stricter rate limiting
	limit := ctx.AuthRateLimiter.RateLimit()
	ctx.V1.POST("/register", limit, m.handler.Register)
	ctx.V1.POST("/login", limit, m.handler.Login)

	ctx.Protected.POST("/logout", m.handler.Logout)
	ctx.Protected.GET("/me", m.handler.Me)
	ctx.Protected.GET("/profile/:uid", m.handler.GetProfile)
	ctx.Protected.PUT("/profile/:uid", m.handler.EditProfile)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
