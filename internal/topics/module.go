// Package topics provides the discussion topics module.
package topics

import (
	"capstone_backend/internal/docstore"
	apphttp "capstone_backend/internal/http"
	"capstone_backend/internal/topics/handler"
	"capstone_backend/internal/topics/repository"
	"capstone_backend/internal/topics/service"
	"capstone_backend/platform/logger"
	"capstone_backend/platform/validator"
)

// Module is the topics module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the topics module with all its dependencies.
func NewModule(store docstore.Store, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(store)
	svc := service.New(repo, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "topics"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts topic routes. Every topic route requires authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Protected.Group("/topic")
	g.GET("", m.handler.List)
	g.GET("/:id", m.handler.GetByID)
	g.GET("/account/:uid", m.handler.ListByAccount)
	g.POST("", m.handler.Create)
	g.PUT("/:id", m.handler.Update)
	g.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
