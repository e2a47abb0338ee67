package handler

import (
	"github.com/deppfellow/rentaldesk/internal/server"
	"github.com/deppfellow/rentaldesk/internal/service"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Health    *HealthHandler
	OpenAPI   *OpenAPIHandler
	Console   *ConsoleHandler
	Dashboard *DashboardHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		OpenAPI:   NewOpenAPIHandler(s),
		Console:   NewConsoleHandler(s, services.Console),
		Dashboard: NewDashboardHandler(s, services.Dashboard),
	}
}
