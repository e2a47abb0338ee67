package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/rentaldesk/internal/handler"
)

// registerSystemRoutes mounts the endpoints outside /api: health, the docs
// page and the static assets it loads (openapi.json).
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.Static("/static", handler.StaticDir)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
