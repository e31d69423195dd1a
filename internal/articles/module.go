// Package articles provides the articles module. Reads are public; publishing
// requires a signed-in caller.
package articles

import (
	"capstone_backend/internal/articles/handler"
	"capstone_backend/internal/articles/repository"
	"capstone_backend/internal/articles/service"
	"capstone_backend/internal/docstore"
	apphttp "capstone_backend/internal/http"
	"capstone_backend/platform/logger"
	"capstone_backend/platform/validator"
)

// Module is the articles module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the module. maxFileSize caps the cover image.
func NewModule(store docstore.Store, images service.ImageStore, maxFileSize int64, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(store), images, log)
	return &Module{handler: handler.New(svc, val, maxFileSize)}
}

func (m *Module) Name() string {
	return "articles"
}

// RegisterRoutes mounts the public reads on V1 and guards publishing with the
// auth middleware on the same path.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.V1.Group("/article")
	g.GET("", m.handler.List)
	g.GET("/:id", m.handler.GetByID)
	g.POST("", ctx.AuthMiddleware, m.handler.Create)
}

var _ apphttp.Module = (*Module)(nil)
