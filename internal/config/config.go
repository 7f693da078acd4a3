package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDBPath         = "./dev.db"
	defaultPort           = "8080"
	defaultEnv            = "development"
	defaultStoreBackend   = BackendSQLite
	defaultChargesTable   = "job_charges"
	defaultRoutingTimeout = 3 * time.Second
)

// Storage backends for persisted charge sets.
const (
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	DBPath         string
	Port           string
	Env            string
	StoreBackend   string
	ChargesTable   string
	RoutingURL     string
	RoutingAPIKey  string
	RoutingTimeout time.Duration
	MigrationsDir  string
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "", "dev", "development", "local":
		return true
	}
	return false
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: production injects real env vars.
	if err := loadEnvFile(".env"); err != nil {
		log.Printf("warning: read .env: %v", err)
	}

	cfg := Config{
		DBPath:        getenvDefault("DB_PATH", defaultDBPath),
		Port:          getenvDefault("PORT", defaultPort),
		Env:           getenvDefault("APP_ENV", defaultEnv),
		StoreBackend:  strings.ToLower(getenvDefault("STORE_BACKEND", defaultStoreBackend)),
		ChargesTable:  getenvDefault("CHARGES_TABLE", defaultChargesTable),
		RoutingURL:    os.Getenv("ROUTING_URL"),
		RoutingAPIKey: os.Getenv("ROUTING_API_KEY"),
		MigrationsDir: os.Getenv("MIGRATIONS_DIR"),
	}

	cfg.RoutingTimeout = defaultRoutingTimeout
	if raw := os.Getenv("ROUTING_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			log.Printf("warning: invalid ROUTING_TIMEOUT %q, using %s", raw, defaultRoutingTimeout)
		} else {
			cfg.RoutingTimeout = d
		}
	}

	if cfg.StoreBackend != BackendSQLite && cfg.StoreBackend != BackendDynamoDB {
		log.Printf("warning: unknown STORE_BACKEND %q, using %s", cfg.StoreBackend, defaultStoreBackend)
		cfg.StoreBackend = defaultStoreBackend
	}
	if cfg.RoutingURL == "" {
		log.Print("warning: ROUTING_URL is not set, distances will be estimated")
	}
	if cfg.RoutingURL != "" && cfg.RoutingAPIKey == "" {
		log.Print("warning: ROUTING_API_KEY is not set")
	}

	return cfg
}

// loadEnvFile loads KEY=VALUE pairs without overwriting variables already set.
// A missing file is not an error.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
