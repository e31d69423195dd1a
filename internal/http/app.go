// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"capstone_backend/platform/config"
	"capstone_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP settings only).
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness checks (document store ping).
	Health HealthChecker
	// AuthMiddleware verifies bearer tokens for the protected group.
	AuthMiddleware gin.HandlerFunc
	// MaxBodyBytes caps request bodies; zero disables the cap.
	MaxBodyBytes int64
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
