// Package comments provides the comments module: replies under topics.
package comments

import (
	"capstone_backend/internal/comments/handler"
	"capstone_backend/internal/comments/repository"
	"capstone_backend/internal/comments/service"
	"capstone_backend/internal/docstore"
	apphttp "capstone_backend/internal/http"
	"capstone_backend/platform/logger"
	"capstone_backend/platform/validator"
)

// Module is the comments module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the comments repository, service and handler.
func NewModule(store docstore.Store, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(store), log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "comments"
}

// RegisterRoutes mounts comment routes on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Protected.Group("/comment")
	g.GET("", m.handler.List)
	g.GET("/:id", m.handler.GetByID)
	g.GET("/account/:uid", m.handler.ListByAccount)
	g.GET("/topic/:topic_id", m.handler.ListByTopic)
	g.POST("", m.handler.Create)
	g.PUT("/:id", m.handler.Update)
	g.DELETE("/:id", m.handler.Delete)
}

var _ apphttp.Module = (*Module)(nil)
