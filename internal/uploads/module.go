// Package uploads provides the direct upload endpoint and the shared upload
// service used by articles and profiles.
package uploads

import (
	"capstone_backend/internal/adapters/storage"
	apphttp "capstone_backend/internal/http"
	"capstone_backend/internal/uploads/handler"
	"capstone_backend/internal/uploads/service"
	"capstone_backend/platform/logger"
)

// Module is the uploads module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(store storage.StorageService, log *logger.Logger) *Module {
	svc := service.New(store, log)
	return &Module{handler: handler.New(svc), service: svc}
}

func (m *Module) Name() string {
	return "uploads"
}

// Service returns the upload service for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/upload", m.handler.Upload)
}

var _ apphttp.Module = (*Module)(nil)
