// Package router builds the echo instance: the middleware chain, the
// system routes and the /api group.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/rentaldesk/internal/handler"
	"github.com/deppfellow/rentaldesk/internal/middleware"
	"github.com/deppfellow/rentaldesk/internal/server"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id and the New Relic transaction must
	// exist before the request logger is built from them.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api", middlewares.RateLimit.Limit())
	registerConsoleRoutes(api, h)
	registerDashboardRoutes(api, h)

	return router
}

func registerConsoleRoutes(api *echo.Group, h *handler.Handlers) {
	api.POST("/sql", handler.Handle(h.Console.ExecuteSQL, http.StatusOK))
}

func registerDashboardRoutes(api *echo.Group, h *handler.Handlers) {
	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", handler.Handle(h.Dashboard.GetSummary, http.StatusOK))
	dashboard.GET("/revenue-by-month", handler.Handle(h.Dashboard.GetRevenueByMonth, http.StatusOK))
	dashboard.GET("/top-vehicles", handler.Handle(h.Dashboard.GetTopVehicles, http.StatusOK))
	dashboard.GET("/client-stats", handler.Handle(h.Dashboard.GetClientStats, http.StatusOK))
}
