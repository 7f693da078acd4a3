package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/Simplici0/movequote/internal/config"
	"github.com/Simplici0/movequote/internal/db"
	"github.com/Simplici0/movequote/internal/distance"
	"github.com/Simplici0/movequote/internal/migrations"
	"github.com/Simplici0/movequote/internal/pricing"
	"github.com/Simplici0/movequote/internal/quoting"
	"github.com/Simplici0/movequote/internal/store"
)

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, cfg.MigrationsDir); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
	}

	charges, err := newChargeRepository(cfg, database)
	if err != nil {
		log.Fatalf("failed to set up charge store: %v", err)
	}

	tables := pricing.DefaultTables()
	rates, err := store.LoadHourlyRates(context.Background(), database)
	if err != nil {
		log.Printf("warning: using built-in hourly rates: %v", err)
	} else if len(rates) > 0 {
		tables = tables.WithHourlyRates(rates)
		log.Printf("loaded hourly rates for %d service types", len(rates))
	}

	var provider distance.Provider
	if cfg.RoutingURL != "" {
		provider = distance.NewHTTPProvider(cfg.RoutingURL, cfg.RoutingAPIKey, cfg.RoutingTimeout)
	}
	resolver := distance.NewResolver(provider, cfg.RoutingTimeout)

	quotes, err := quoting.NewService(tables, resolver, charges)
	if err != nil {
		log.Fatalf("failed to build quoting service: %v", err)
	}

	srv := &server{quotes: quotes, now: time.Now}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (store=%s)", addr, cfg.StoreBackend)
	if err := http.ListenAndServe(addr, newRouter(srv)); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newChargeRepository(cfg config.Config, database *sql.DB) (store.ChargeRepository, error) {
	if cfg.StoreBackend != config.BackendDynamoDB {
		return store.NewSQLiteCharges(database), nil
	}
	client, err := db.OpenDynamoDB(context.Background())
	if err != nil {
		return nil, err
	}
	return store.NewDynamoCharges(client, cfg.ChargesTable), nil
}
