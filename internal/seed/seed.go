package seed

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/Simplici0/movequote/internal/pricing"
)

// Config contains the values required by the rate seed.
type Config struct {
	// Tables supplies the rates to write. Nil means pricing.DefaultTables().
	Tables *pricing.Tables
	// Overwrite updates rows whose stored rate differs from Tables.
	Overwrite bool
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run writes the hourly rate tables in an idempotent way.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tables := cfg.Tables
	if tables == nil {
		tables = pricing.DefaultTables()
	}
	if err := tables.Validate(); err != nil {
		return Stats{}, fmt.Errorf("validate rate tables: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for _, st := range tables.ServiceTypes() {
		table := tables.Rates[st]

		crews := make([]int, 0, len(table.ByCrew))
		for crew := range table.ByCrew {
			crews = append(crews, crew)
		}
		sort.Ints(crews)

		for _, crew := range crews {
			if err := ensureHourlyRate(tx, st, crew, table.ByCrew[crew], cfg.Overwrite, &stats); err != nil {
				_ = tx.Rollback()
				return Stats{}, err
			}
		}
		if table.PerAdditionalMover > 0 {
			if err := ensureAdditionalMoverRate(tx, st, table.PerAdditionalMover, cfg.Overwrite, &stats); err != nil {
				_ = tx.Rollback()
				return Stats{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureHourlyRate(tx *sql.Tx, st pricing.ServiceType, crew int, rate float64, overwrite bool, stats *Stats) error {
	var current float64
	err := tx.QueryRow(`
		SELECT rate
		FROM hourly_rates
		WHERE service_type = ? AND crew_size = ?
	`, string(st), crew).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.Exec(`
			INSERT INTO hourly_rates (service_type, crew_size, rate)
			VALUES (?, ?, ?)
		`, string(st), crew, rate); err != nil {
			return fmt.Errorf("insert hourly rate %s/%d: %w", st, crew, err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check hourly rate %s/%d: %w", st, crew, err)
	}

	if !overwrite || current == rate {
		return nil
	}
	if _, err := tx.Exec(`
		UPDATE hourly_rates
		SET rate = ?, updated_at = CURRENT_TIMESTAMP
		WHERE service_type = ? AND crew_size = ?
	`, rate, string(st), crew); err != nil {
		return fmt.Errorf("update hourly rate %s/%d: %w", st, crew, err)
	}
	stats.Updates++
	return nil
}

func ensureAdditionalMoverRate(tx *sql.Tx, st pricing.ServiceType, rate float64, overwrite bool, stats *Stats) error {
	var current float64
	err := tx.QueryRow(`SELECT rate FROM additional_mover_rates WHERE service_type = ?`, string(st)).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.Exec(`
			INSERT INTO additional_mover_rates (service_type, rate)
			VALUES (?, ?)
		`, string(st), rate); err != nil {
			return fmt.Errorf("insert additional mover rate %s: %w", st, err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check additional mover rate %s: %w", st, err)
	}

	if !overwrite || current == rate {
		return nil
	}
	if _, err := tx.Exec(`
		UPDATE additional_mover_rates
		SET rate = ?, updated_at = CURRENT_TIMESTAMP
		WHERE service_type = ?
	`, rate, string(st)); err != nil {
		return fmt.Errorf("update additional mover rate %s: %w", st, err)
	}
	stats.Updates++
	return nil
}
