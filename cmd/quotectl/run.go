package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Simplici0/movequote/internal/config"
	"github.com/Simplici0/movequote/internal/db"
	"github.com/Simplici0/movequote/internal/distance"
	"github.com/Simplici0/movequote/internal/export"
	"github.com/Simplici0/movequote/internal/migrations"
	"github.com/Simplici0/movequote/internal/pricing"
	"github.com/Simplici0/movequote/internal/quoting"
	"github.com/Simplici0/movequote/internal/seed"
	"github.com/Simplici0/movequote/internal/store"
)

// errCalculation is returned when the engine rejects a job file; the
// validation errors have already been printed.
var errCalculation = errors.New("calculation failed")

type outputOptions struct {
	quick     bool
	breakdown bool
	json      bool
}

func (o *outputOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.quick, "quick", "q", false, "print the short summary")
	cmd.Flags().BoolVarP(&o.breakdown, "breakdown", "b", false, "print the line-by-line breakdown")
	cmd.Flags().BoolVar(&o.json, "json", false, "print the result as JSON")
}

func runEstimate(w io.Writer, path string, opts outputOptions) error {
	var in pricing.EstimationInputs
	if err := loadJobFile(path, &in); err != nil {
		return err
	}

	svc, err := quoting.NewService(nil, nil, nil)
	if err != nil {
		return err
	}

	switch {
	case opts.quick:
		return report(w, svc.QuickEstimate(in), opts.json, printQuickEstimate)
	case opts.breakdown:
		return report(w, svc.EstimateBreakdown(in), opts.json, printEstimationBreakdown)
	default:
		return report(w, svc.Estimate(in), opts.json, printEstimate)
	}
}

func runPrice(ctx context.Context, w io.Writer, cfg config.Config, path string, opts outputOptions, save bool) error {
	var in pricing.PricingInputs
	if err := loadJobFile(path, &in); err != nil {
		return err
	}

	svc, closeDB, err := openService(ctx, cfg, save)
	if err != nil {
		return err
	}
	defer closeDB()

	switch {
	case save:
		res, err := svc.SaveCharges(ctx, in)
		if err != nil {
			return err
		}
		if err := report(w, res, opts.json, printPricing); err != nil {
			return err
		}
		if !opts.json {
			fmt.Fprintf(w, "\nSaved charges for job %s\n", res.Data.JobID)
		}
		return nil
	case opts.quick:
		return report(w, svc.QuickPrice(ctx, in), opts.json, printQuickPrice)
	case opts.breakdown:
		return report(w, svc.PriceBreakdown(ctx, in), opts.json, printPricingBreakdown)
	default:
		return report(w, svc.Price(ctx, in), opts.json, printPricing)
	}
}

func runExport(ctx context.Context, cfg config.Config, jobID, format, out string) error {
	svc, closeDB, err := openService(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer closeDB()

	data, err := svc.Charges(ctx, jobID)
	if err != nil {
		return fmt.Errorf("loading charges for job %s: %w", jobID, err)
	}
	sheet := export.NewSheet(data, time.Now())

	var content []byte
	switch format {
	case "xlsx":
		content, err = export.Excel(sheet)
	case "pdf":
		content, err = export.PDF(sheet)
	default:
		return fmt.Errorf("unknown export format %q: use xlsx or pdf", format)
	}
	if err != nil {
		return fmt.Errorf("rendering %s: %w", format, err)
	}

	if out == "" {
		out = fmt.Sprintf("charges-%s.%s", jobID, format)
	}
	if err := os.WriteFile(out, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	log.Printf("wrote %s", out)
	return nil
}

func runMigrate(w io.Writer, cfg config.Config) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.Up(database, cfg.MigrationsDir); err != nil {
		return err
	}
	version, err := migrations.Version(database)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s is at schema version %d\n", cfg.DBPath, version)
	return nil
}

func runSeed(w io.Writer, cfg config.Config, overwrite bool) error {
	database, err := openMigrated(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	stats, err := seed.Run(database, seed.Config{Overwrite: overwrite})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Seeded %s: %d inserted, %d updated\n", cfg.DBPath, stats.Inserts, stats.Updates)
	return nil
}

// openService builds a quoting service from the configured database rates and
// routing provider. The database is only opened when withStore is set, so
// plain pricing works without one.
func openService(ctx context.Context, cfg config.Config, withStore bool) (*quoting.Service, func(), error) {
	var provider distance.Provider
	if cfg.RoutingURL != "" {
		provider = distance.NewHTTPProvider(cfg.RoutingURL, cfg.RoutingAPIKey, cfg.RoutingTimeout)
	}
	resolver := distance.NewResolver(provider, cfg.RoutingTimeout)

	if !withStore {
		svc, err := quoting.NewService(nil, resolver, nil)
		return svc, func() {}, err
	}

	database, err := openMigrated(cfg)
	if err != nil {
		return nil, nil, err
	}

	tables := pricing.DefaultTables()
	rates, err := store.LoadHourlyRates(ctx, database)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("loading hourly rates: %w", err)
	}
	if len(rates) > 0 {
		tables = tables.WithHourlyRates(rates)
	}

	svc, err := quoting.NewService(tables, resolver, store.NewSQLiteCharges(database))
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return svc, func() { database.Close() }, nil
}

func openMigrated(cfg config.Config) (*sql.DB, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(database, cfg.MigrationsDir); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// report prints res as JSON or through printData. A failed result still prints
// its errors and then returns errCalculation so the process exits non-zero.
func report[T any](w io.Writer, res pricing.Result[T], asJSON bool, printData func(io.Writer, *T)) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	} else {
		printWarnings(w, res.Warnings)
		if res.Success {
			printData(w, res.Data)
		} else {
			printErrors(w, res.Errors)
		}
	}
	if !res.Success {
		return errCalculation
	}
	return nil
}
