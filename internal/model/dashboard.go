package model

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/deppfellow/rentaldesk/internal/validation"
)

// DashboardSummary is the response of GET /api/dashboard/summary.
//
// TotalRevenue is a decimal string. AvgRating is 0 until the first review
// exists, never null: clients format it unconditionally.
type DashboardSummary struct {
	TotalLocations     int64           `json:"total_locations"`
	TotalEmployees     int64           `json:"total_employees"`
	TotalVehicles      int64           `json:"total_vehicles"`
	TotalClients       int64           `json:"total_clients"`
	TotalReservations  int64           `json:"total_reservations"`
	ActiveReservations int64           `json:"active_reservations"`
	TotalPayments      int64           `json:"total_payments"`
	TotalMaintenance   int64           `json:"total_maintenance"`
	TotalReviews       int64           `json:"total_reviews"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	AvgRating          float64         `json:"avg_rating"`
}

// MonthlyRevenue is one row of GET /api/dashboard/revenue-by-month.
// Month is the first day of the pickup month and encodes as "2024-03-01".
type MonthlyRevenue struct {
	Month        pgtype.Date     `json:"month" db:"month"`
	Revenue      decimal.Decimal `json:"revenue" db:"revenue"`
	BookingCount int64           `json:"booking_count" db:"booking_count"`
}

// VehicleStats is one row of GET /api/dashboard/top-vehicles.
// AvgRating is null when none of the vehicle's rentals was reviewed.
type VehicleStats struct {
	VehicleID    int32           `json:"vehicle_id" db:"vehicle_id"`
	Make         string          `json:"make" db:"make"`
	Model        string          `json:"model" db:"model"`
	RentalCount  int64           `json:"rental_count" db:"rental_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue" db:"total_revenue"`
	AvgRating    *float64        `json:"avg_rating" db:"avg_rating"`
}

// ClientStats is one row of GET /api/dashboard/client-stats.
type ClientStats struct {
	ClientID         int32           `json:"client_id" db:"client_id"`
	FirstName        string          `json:"first_name" db:"first_name"`
	LastName         string          `json:"last_name" db:"last_name"`
	TotalSpent       decimal.Decimal `json:"total_spent" db:"total_spent"`
	ReservationCount int64           `json:"reservation_count" db:"reservation_count"`
	AvgRating        *float64        `json:"avg_rating" db:"avg_rating"`
}

// RevenueByMonthRequest has no parameters; it exists for the Handle pipeline.
type RevenueByMonthRequest struct{}

func (r *RevenueByMonthRequest) Validate() error {
	return nil
}

// SummaryRequest has no parameters.
type SummaryRequest struct{}

func (r *SummaryRequest) Validate() error {
	return nil
}

// RankingRequest is the query of the ranked dashboard lists. A zero Limit
// means the configured default.
type RankingRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

func (r *RankingRequest) Validate() error {
	return validation.Struct(r)
}

// EffectiveLimit returns Limit, or fallback when none was given.
func (r *RankingRequest) EffectiveLimit(fallback int) int {
	if r.Limit > 0 {
		return r.Limit
	}
	return fallback
}
