package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Simplici0/movequote/internal/pricing"
)

// LoadHourlyRates reads the hourly_rates and additional_mover_rates tables.
// Service types without rows are absent from the map so the caller keeps its
// built-in table for them.
func LoadHourlyRates(ctx context.Context, db *sql.DB) (map[pricing.ServiceType]pricing.RateTable, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT service_type, crew_size, rate
		FROM hourly_rates
		ORDER BY service_type, crew_size
	`)
	if err != nil {
		return nil, fmt.Errorf("query hourly rates: %w", err)
	}
	defer rows.Close()

	out := map[pricing.ServiceType]pricing.RateTable{}
	for rows.Next() {
		var (
			st   string
			crew int
			rate float64
		)
		if err := rows.Scan(&st, &crew, &rate); err != nil {
			return nil, fmt.Errorf("scan hourly rate: %w", err)
		}
		table := out[pricing.ServiceType(st)]
		if table.ByCrew == nil {
			table.ByCrew = map[int]float64{}
		}
		table.ByCrew[crew] = rate
		out[pricing.ServiceType(st)] = table
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hourly rates: %w", err)
	}

	extra, err := db.QueryContext(ctx, `SELECT service_type, rate FROM additional_mover_rates`)
	if err != nil {
		return nil, fmt.Errorf("query additional mover rates: %w", err)
	}
	defer extra.Close()

	for extra.Next() {
		var (
			st   string
			rate float64
		)
		if err := extra.Scan(&st, &rate); err != nil {
			return nil, fmt.Errorf("scan additional mover rate: %w", err)
		}
		table, ok := out[pricing.ServiceType(st)]
		if !ok {
			continue
		}
		table.PerAdditionalMover = rate
		out[pricing.ServiceType(st)] = table
	}
	if err := extra.Err(); err != nil {
		return nil, fmt.Errorf("iterate additional mover rates: %w", err)
	}

	return out, nil
}
