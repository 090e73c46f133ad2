package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jroosing/hydradig/internal/api/handlers"
	"github.com/jroosing/hydradig/internal/api/middleware"
	"github.com/jroosing/hydradig/internal/config"
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config) {
	api := r.Group("/api/v1")

	// Health stays reachable without a key.
	api.GET("/health", h.Health)

	protected := api.Group("")
	if cfg != nil && cfg.API.APIKey != "" {
		protected.Use(middleware.RequireAPIKey(cfg.API.APIKey))
	}

	protected.POST("/lookup", h.Lookup)
	protected.GET("/stats", h.Stats)
}
