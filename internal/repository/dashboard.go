package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/deppfellow/rentaldesk/internal/model"
)

// DashboardRepository answers the read-only aggregate queries.
type DashboardRepository struct {
	db DBTX
}

func NewDashboardRepository(db DBTX) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Reservations in these states still hold a vehicle.
const activeReservationStates = `('active', 'confirmed')`

// summaryCounts maps each summary field to the query that fills it.
func summaryCounts(s *model.DashboardSummary) []struct {
	dst   *int64
	query string
} {
	return []struct {
		dst   *int64
		query string
	}{
		{&s.TotalLocations, `SELECT COUNT(*) FROM locations`},
		{&s.TotalEmployees, `SELECT COUNT(*) FROM employees`},
		{&s.TotalVehicles, `SELECT COUNT(*) FROM vehicles`},
		{&s.TotalClients, `SELECT COUNT(*) FROM clients`},
		{&s.TotalReservations, `SELECT COUNT(*) FROM reservations`},
		{&s.ActiveReservations, `SELECT COUNT(*) FROM reservations WHERE status IN ` + activeReservationStates},
		{&s.TotalPayments, `SELECT COUNT(*) FROM payments`},
		{&s.TotalMaintenance, `SELECT COUNT(*) FROM maintenance_records`},
		{&s.TotalReviews, `SELECT COUNT(*) FROM reviews`},
	}
}

// Summary runs the headline counts concurrently, each on its own pooled
// connection. The first failure cancels the rest.
func (r *DashboardRepository) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	summary := &model.DashboardSummary{}

	g, ctx := errgroup.WithContext(ctx)

	for _, c := range summaryCounts(summary) {
		g.Go(func() error {
			if err := r.db.QueryRow(ctx, c.query).Scan(c.dst); err != nil {
				return fmt.Errorf("%s: %w", c.query, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		err := r.db.QueryRow(ctx,
			`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'completed'`,
		).Scan(&summary.TotalRevenue)
		if err != nil {
			return fmt.Errorf("total revenue: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := r.db.QueryRow(ctx,
			`SELECT COALESCE(AVG(rating)::float8, 0) FROM reviews`,
		).Scan(&summary.AvgRating)
		if err != nil {
			return fmt.Errorf("average rating: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// RevenueByMonth groups completed reservations by pickup month, oldest first.
func (r *DashboardRepository) RevenueByMonth(ctx context.Context) ([]model.MonthlyRevenue, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			date_trunc('month', r.pickup_date)::date AS month,
			SUM(r.total_cost) AS revenue,
			COUNT(*) AS booking_count
		FROM reservations r
		WHERE r.status = 'completed'
		GROUP BY date_trunc('month', r.pickup_date)
		ORDER BY month`)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[model.MonthlyRevenue])
}

// TopVehicles ranks vehicles by completed rentals. Vehicles that were never
// rented to completion are left out.
func (r *DashboardRepository) TopVehicles(ctx context.Context, limit int) ([]model.VehicleStats, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			v.id AS vehicle_id,
			v.make,
			v.model,
			COUNT(res.id) AS rental_count,
			SUM(res.total_cost) AS total_revenue,
			AVG(rev.rating)::float8 AS avg_rating
		FROM vehicles v
		JOIN reservations res ON res.vehicle_id = v.id AND res.status = 'completed'
		LEFT JOIN reviews rev ON rev.reservation_id = res.id
		GROUP BY v.id, v.make, v.model
		ORDER BY rental_count DESC, v.id
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[model.VehicleStats])
}

// ClientStats ranks clients by completed payments. Only reservations with a
// completed payment count, so clients who never paid are left out.
func (r *DashboardRepository) ClientStats(ctx context.Context, limit int) ([]model.ClientStats, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			c.id AS client_id,
			c.first_name,
			c.last_name,
			SUM(p.amount) AS total_spent,
			COUNT(DISTINCT res.id) AS reservation_count,
			AVG(rev.rating)::float8 AS avg_rating
		FROM clients c
		JOIN reservations res ON res.client_id = c.id
		JOIN payments p ON p.reservation_id = res.id AND p.status = 'completed'
		LEFT JOIN reviews rev ON rev.reservation_id = res.id
		GROUP BY c.id, c.first_name, c.last_name
		ORDER BY total_spent DESC, c.id
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[model.ClientStats])
}
