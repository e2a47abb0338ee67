package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/rentaldesk/internal/config"
	"github.com/deppfellow/rentaldesk/internal/model"
)

const dashboardKeyPrefix = config.ServiceName + ":dashboard:"

// DashboardStore answers the aggregate queries.
type DashboardStore interface {
	Summary(ctx context.Context) (*model.DashboardSummary, error)
	RevenueByMonth(ctx context.Context) ([]model.MonthlyRevenue, error)
	TopVehicles(ctx context.Context, limit int) ([]model.VehicleStats, error)
	ClientStats(ctx context.Context, limit int) ([]model.ClientStats, error)
}

type DashboardService struct {
	store        DashboardStore
	cache        Cache
	ttl          time.Duration
	defaultLimit int
}

// NewDashboardService builds the service. Caching is off when cache is nil
// or cfg.CacheTTL is zero.
func NewDashboardService(store DashboardStore, cache Cache, cfg config.DashboardConfig) *DashboardService {
	return &DashboardService{
		store:        store,
		cache:        cache,
		ttl:          cfg.CacheTTL,
		defaultLimit: cfg.TopLimit,
	}
}

func (s *DashboardService) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	return cached(ctx, s, "summary", s.store.Summary)
}

func (s *DashboardService) RevenueByMonth(ctx context.Context) ([]model.MonthlyRevenue, error) {
	return cached(ctx, s, "revenue-by-month", s.store.RevenueByMonth)
}

func (s *DashboardService) TopVehicles(ctx context.Context, req *model.RankingRequest) ([]model.VehicleStats, error) {
	limit := req.EffectiveLimit(s.defaultLimit)
	return cached(ctx, s, fmt.Sprintf("top-vehicles:%d", limit), func(ctx context.Context) ([]model.VehicleStats, error) {
		return s.store.TopVehicles(ctx, limit)
	})
}

func (s *DashboardService) ClientStats(ctx context.Context, req *model.RankingRequest) ([]model.ClientStats, error) {
	limit := req.EffectiveLimit(s.defaultLimit)
	return cached(ctx, s, fmt.Sprintf("client-stats:%d", limit), func(ctx context.Context) ([]model.ClientStats, error) {
		return s.store.ClientStats(ctx, limit)
	})
}

// cached is cache-aside around load. Cache errors are logged and bypassed:
// the dashboard stays up when Redis is not.
func cached[T any](ctx context.Context, s *DashboardService, name string, load func(context.Context) (T, error)) (T, error) {
	logger := zerolog.Ctx(ctx).With().Str("cache_key", name).Logger()
	key := dashboardKeyPrefix + name

	if s.cache != nil && s.ttl > 0 {
		raw, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var value T
			if err := json.Unmarshal(raw, &value); err == nil {
				logger.Debug().Msg("dashboard cache hit")
				return value, nil
			}
			logger.Warn().Msg("discarding unreadable dashboard cache entry")
		case !errors.Is(err, ErrCacheMiss):
			logger.Warn().Err(err).Msg("dashboard cache unavailable")
		}
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, pkgerrors.Wrapf(err, "loading dashboard %s", name)
	}

	if s.cache != nil && s.ttl > 0 {
		if raw, err := json.Marshal(value); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
				logger.Warn().Err(err).Msg("failed to store dashboard cache entry")
			}
		}
	}

	return value, nil
}
