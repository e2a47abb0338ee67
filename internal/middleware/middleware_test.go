package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/rentaldesk/internal/config"
	"github.com/deppfellow/rentaldesk/internal/errs"
	"github.com/deppfellow/rentaldesk/internal/server"
)

func testServer(rateLimit float64) *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "local"},
			Server:  config.ServerConfig{RateLimit: rateLimit, CORSAllowedOrigins: []string{"*"}},
		},
		Logger: &logger,
	}
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	if generated == "" || rec.Body.String() != generated {
		t.Errorf("generated id %q, body %q", generated, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-42")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "upstream-42" {
		t.Errorf("upstream id not reused: %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); len(got) > maxRequestIDLength {
		t.Errorf("oversized id accepted: %d bytes", len(got))
	}
}

func TestEnhanceContext_PutsLoggerInRequestContext(t *testing.T) {
	s := testServer(0)
	e := echo.New()
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())

	var fromEcho, fromCtx *zerolog.Logger
	e.GET("/", func(c echo.Context) error {
		fromEcho = GetLogger(c)
		fromCtx = zerolog.Ctx(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if fromEcho == nil || fromCtx == nil || fromEcho != fromCtx {
		t.Errorf("echo logger %p and context logger %p should be the same", fromEcho, fromCtx)
	}
}

func TestGetLogger_WithoutEnhancer(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if GetLogger(c) == nil {
		t.Fatal("GetLogger must never return nil")
	}
}

func TestRateLimit(t *testing.T) {
	s := testServer(1)
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/api/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	var statuses []int
	for range 3 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))
		statuses = append(statuses, rec.Code)
	}

	// Burst is twice the rate: two pass, the third is rejected.
	if statuses[0] != http.StatusNoContent || statuses[1] != http.StatusNoContent {
		t.Errorf("statuses = %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", statuses[2])
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	s := testServer(0)
	e := echo.New()
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	for range 50 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d with the limiter off", rec.Code)
		}
	}
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"http error", errs.NewNotFoundError("Vehicle not found", true, nil), http.StatusNotFound, "NOT_FOUND"},
		{"unknown route", echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{
			"statement timeout",
			&pgconn.PgError{Code: "57014", Message: "canceling statement due to statement timeout"},
			http.StatusServiceUnavailable,
			"SERVICE_UNAVAILABLE",
		},
		{"anything else", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	handler := NewGlobalMiddlewares(testServer(0)).GlobalErrorHandler

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handler(tt.err, c)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body errs.HTTPError
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body %q: %v", rec.Body.String(), err)
			}
			if body.Code != tt.wantCode || body.Status != tt.wantStatus {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	if got := statusOf(nil, http.StatusOK); got != http.StatusOK {
		t.Errorf("no error = %d", got)
	}
	if got := statusOf(errs.NewTooManyRequestsError("x"), http.StatusOK); got != http.StatusTooManyRequests {
		t.Errorf("http error = %d", got)
	}
	if got := statusOf(errors.New("x"), http.StatusOK); got != http.StatusInternalServerError {
		t.Errorf("plain error = %d", got)
	}
}

func TestAPIArea(t *testing.T) {
	tests := map[string]string{
		"/api/sql":                        "console",
		"/api/dashboard/summary":          "dashboard",
		"/api/dashboard/revenue-by-month": "dashboard",
		"/status":                         "",
		"/api/sqlx":                       "",
	}
	for route, want := range tests {
		if got := apiArea(route); got != want {
			t.Errorf("apiArea(%q) = %q, want %q", route, got, want)
		}
	}
}
