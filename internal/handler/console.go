package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/rentaldesk/internal/console"
	"github.com/deppfellow/rentaldesk/internal/middleware"
	"github.com/deppfellow/rentaldesk/internal/model"
	"github.com/deppfellow/rentaldesk/internal/server"
)

// ConsoleExecutor is the part of the console service the handler needs.
type ConsoleExecutor interface {
	Execute(ctx context.Context, statement, requestID string) console.Outcome
}

type ConsoleHandler struct {
	Handler
	console ConsoleExecutor
}

func NewConsoleHandler(s *server.Server, executor ConsoleExecutor) *ConsoleHandler {
	return &ConsoleHandler{
		Handler: NewHandler(s),
		console: executor,
	}
}

// ExecuteSQL runs the posted statement. Failures are outcomes, not errors:
// they are answered with {"error": ...} and a 400 chosen by the outcome.
func (h *ConsoleHandler) ExecuteSQL(c echo.Context, req *model.ExecuteSQLRequest) (console.Outcome, error) {
	return h.console.Execute(c.Request().Context(), req.Query, middleware.GetRequestID(c)), nil
}
