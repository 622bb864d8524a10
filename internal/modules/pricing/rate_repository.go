package pricing

import (
	"context"
	"fmt"

	"auto-shipping/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RateRepositoryInterface declares storage operations for the
// admin-editable rate table. The engine itself never touches the
// database; the service loads a RateTable value and injects it.
type RateRepositoryInterface interface {
	// ListRates returns every configured rate row.
	ListRates(ctx context.Context) ([]*models.PricingRate, error)
	// GetRateTable assembles the configured rows into a RateTable.
	// An empty table (no rows) is not an error; callers fall back to
	// the built-in defaults.
	GetRateTable(ctx context.Context) (RateTable, error)
	// UpsertRate creates or replaces the rate row for one category.
	UpsertRate(ctx context.Context, vehicleType string, req models.UpdatePricingRateRequest) (*models.PricingRate, error)
}

// RateRepository is a PostgreSQL implementation of RateRepositoryInterface.
type RateRepository struct {
	db *pgxpool.Pool
}

// NewRateRepository creates a new repository instance.
func NewRateRepository(db *pgxpool.Pool) RateRepositoryInterface {
	return &RateRepository{db: db}
}

// ListRates retrieves all configured rate rows ordered by category.
func (r *RateRepository) ListRates(ctx context.Context) ([]*models.PricingRate, error) {
	query := `
        SELECT vehicle_type, short_rate, mid_rate, long_rate, accident_rate, updated_at
        FROM pricing_rates
        ORDER BY vehicle_type`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.ListRates: %w", err)
	}
	defer rows.Close()

	var rates []*models.PricingRate
	for rows.Next() {
		rate := &models.PricingRate{}
		if err := rows.Scan(&rate.VehicleType, &rate.ShortRate, &rate.MidRate, &rate.LongRate, &rate.AccidentRate, &rate.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListRates scan: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListRates rows: %w", err)
	}
	return rates, nil
}

// GetRateTable builds a RateTable from the configured rows.
func (r *RateRepository) GetRateTable(ctx context.Context) (RateTable, error) {
	rates, err := r.ListRates(ctx)
	if err != nil {
		return nil, err
	}
	table := RateTable{}
	for _, rate := range rates {
		table[Category(rate.VehicleType)] = Rate{
			Short:    rate.ShortRate,
			Mid:      rate.MidRate,
			Long:     rate.LongRate,
			Accident: rate.AccidentRate,
		}
	}
	return table, nil
}

// UpsertRate inserts or replaces the rates for one vehicle category.
func (r *RateRepository) UpsertRate(ctx context.Context, vehicleType string, req models.UpdatePricingRateRequest) (*models.PricingRate, error) {
	query := `
        INSERT INTO pricing_rates (vehicle_type, short_rate, mid_rate, long_rate, accident_rate, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        ON CONFLICT (vehicle_type) DO UPDATE
        SET short_rate = EXCLUDED.short_rate,
            mid_rate = EXCLUDED.mid_rate,
            long_rate = EXCLUDED.long_rate,
            accident_rate = EXCLUDED.accident_rate,
            updated_at = NOW()
        RETURNING vehicle_type, short_rate, mid_rate, long_rate, accident_rate, updated_at`

	rate := &models.PricingRate{}
	err := r.db.QueryRow(ctx, query, vehicleType, req.ShortRate, req.MidRate, req.LongRate, req.AccidentRate).
		Scan(&rate.VehicleType, &rate.ShortRate, &rate.MidRate, &rate.LongRate, &rate.AccidentRate, &rate.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository.UpsertRate: %w", err)
	}
	return rate, nil
}
