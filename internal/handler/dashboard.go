package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/rentaldesk/internal/model"
	"github.com/deppfellow/rentaldesk/internal/server"
)

// DashboardReader is the part of the dashboard service the handler needs.
type DashboardReader interface {
	Summary(ctx context.Context) (*model.DashboardSummary, error)
	RevenueByMonth(ctx context.Context) ([]model.MonthlyRevenue, error)
	TopVehicles(ctx context.Context, req *model.RankingRequest) ([]model.VehicleStats, error)
	ClientStats(ctx context.Context, req *model.RankingRequest) ([]model.ClientStats, error)
}

type DashboardHandler struct {
	Handler
	dashboard DashboardReader
}

func NewDashboardHandler(s *server.Server, dashboard DashboardReader) *DashboardHandler {
	return &DashboardHandler{
		Handler:   NewHandler(s),
		dashboard: dashboard,
	}
}

func (h *DashboardHandler) GetSummary(c echo.Context, _ *model.SummaryRequest) (*model.DashboardSummary, error) {
	return h.dashboard.Summary(c.Request().Context())
}

func (h *DashboardHandler) GetRevenueByMonth(c echo.Context, _ *model.RevenueByMonthRequest) ([]model.MonthlyRevenue, error) {
	return nonNil(h.dashboard.RevenueByMonth(c.Request().Context()))
}

func (h *DashboardHandler) GetTopVehicles(c echo.Context, req *model.RankingRequest) ([]model.VehicleStats, error) {
	return nonNil(h.dashboard.TopVehicles(c.Request().Context(), req))
}

func (h *DashboardHandler) GetClientStats(c echo.Context, req *model.RankingRequest) ([]model.ClientStats, error) {
	return nonNil(h.dashboard.ClientStats(c.Request().Context(), req))
}

// nonNil makes empty lists encode as [] instead of null.
func nonNil[T any](items []T, err error) ([]T, error) {
	if err == nil && items == nil {
		items = []T{}
	}
	return items, err
}
