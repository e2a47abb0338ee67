package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/rentaldesk/internal/config"
	"github.com/deppfellow/rentaldesk/internal/console"
	"github.com/deppfellow/rentaldesk/internal/handler"
	"github.com/deppfellow/rentaldesk/internal/middleware"
	"github.com/deppfellow/rentaldesk/internal/model"
	"github.com/deppfellow/rentaldesk/internal/server"
	"github.com/deppfellow/rentaldesk/internal/service"
)

type emptyBackend struct{}

func (emptyBackend) Query(context.Context, string) ([]console.Row, error) { return nil, nil }

type emptyDashboard struct{}

func (emptyDashboard) Summary(context.Context) (*model.DashboardSummary, error) {
	return &model.DashboardSummary{}, nil
}

func (emptyDashboard) RevenueByMonth(context.Context) ([]model.MonthlyRevenue, error) {
	return nil, nil
}

func (emptyDashboard) TopVehicles(context.Context, *model.RankingRequest) ([]model.VehicleStats, error) {
	return nil, nil
}

func (emptyDashboard) ClientStats(context.Context, *model.RankingRequest) ([]model.ClientStats, error) {
	return nil, nil
}

func newTestRouter(rateLimit float64) *echo.Echo {
	logger := zerolog.Nop()
	observability := config.DefaultObservabilityConfig()
	observability.HealthChecks.Checks = nil

	s := &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "local"},
			Server:        config.ServerConfig{RateLimit: rateLimit, CORSAllowedOrigins: []string{"*"}},
			Observability: observability,
		},
		Logger: &logger,
	}

	h := &handler.Handlers{
		Health:    handler.NewHealthHandler(s),
		OpenAPI:   handler.NewOpenAPIHandler(s),
		Console:   handler.NewConsoleHandler(s, service.NewConsoleService(emptyBackend{}, nil, 0)),
		Dashboard: handler.NewDashboardHandler(s, emptyDashboard{}),
	}
	return NewRouter(s, h)
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	e := newTestRouter(0)

	tests := []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodGet, "/status", "", http.StatusOK},
		{http.MethodPost, "/api/sql", `{"query":"SELECT 1"}`, http.StatusOK},
		{http.MethodPost, "/api/sql", `{"query":""}`, http.StatusBadRequest},
		{http.MethodGet, "/api/dashboard/summary", "", http.StatusOK},
		{http.MethodGet, "/api/dashboard/revenue-by-month", "", http.StatusOK},
		{http.MethodGet, "/api/dashboard/top-vehicles?limit=3", "", http.StatusOK},
		{http.MethodGet, "/api/dashboard/client-stats", "", http.StatusOK},
		{http.MethodGet, "/api/nowhere", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := serve(e, tt.method, tt.target, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if rec.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("every response carries a request id")
			}
		})
	}
}

func TestRouter_NotFoundIsJSON(t *testing.T) {
	rec := serve(newTestRouter(0), http.MethodGet, "/api/nowhere", "")

	if !strings.Contains(rec.Body.String(), `"code":"NOT_FOUND"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRouter_RateLimitOnlyCoversAPI(t *testing.T) {
	e := newTestRouter(1)

	var limited bool
	for range 5 {
		if serve(e, http.MethodGet, "/api/dashboard/summary", "").Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	if !limited {
		t.Error("expected /api to be rate limited")
	}

	for range 5 {
		if rec := serve(e, http.MethodGet, "/status", ""); rec.Code != http.StatusOK {
			t.Fatalf("/status answered %d", rec.Code)
		}
	}
}
