// Package router assembles the gin engine from the application's modules.
package router

import (
	"context"
	"net/http"
	"time"

	apphttp "capstone_backend/internal/http"
	"capstone_backend/platform/apperr"
	"capstone_backend/platform/config"
	"capstone_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// New builds the engine: global middleware, health check, and the /api/v1
// groups each module registers into.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(httpkit.Recovery(app.Logger))
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))
	if app.MaxBodyBytes > 0 {
		engine.Use(httpkit.BodyLimit(app.MaxBodyBytes))
	}

	engine.GET("/api/health", health(app.Health))

	v1 := engine.Group("/api/v1")

	authMiddleware := app.AuthMiddleware
	if authMiddleware == nil {
		authMiddleware = func(c *gin.Context) {
			httpkit.Abort(c, http.StatusUnauthorized, "authentication required", apperr.ReasonMissingToken)
		}
	}
	protected := v1.Group("")
	protected.Use(authMiddleware)

	ctx := &apphttp.RouterContext{
		Engine:          engine,
		V1:              v1,
		Protected:       protected,
		AuthMiddleware:  authMiddleware,
		AuthRateLimiter: httpkit.NewAuthRateLimiter(app.Logger),
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Debug("module registered", "module", module.Name())
	}

	engine.NoRoute(func(c *gin.Context) {
		httpkit.Error(c, http.StatusNotFound, "Route not found", "", nil)
	})

	return engine
}

func corsConfig(cfg config.HTTPConfig) cors.Config {
	cc := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.GetCORSOrigins()
	}
	return cc
}

func health(checker apphttp.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				_ = c.Error(err)
				httpkit.Error(c, http.StatusServiceUnavailable, "Document store unavailable", "", nil)
				return
			}
		}
		httpkit.OK(c, "OK", gin.H{"status": "ok"})
	}
}
