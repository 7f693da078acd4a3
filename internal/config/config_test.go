package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_PATH", "PORT", "APP_ENV", "STORE_BACKEND", "CHARGES_TABLE", "ROUTING_URL", "ROUTING_API_KEY", "ROUTING_TIMEOUT", "MIGRATIONS_DIR"} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	cfg := Load()
	if cfg.DBPath != defaultDBPath || cfg.Port != defaultPort {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.StoreBackend != BackendSQLite || cfg.ChargesTable != "job_charges" {
		t.Fatalf("unexpected store defaults: %+v", cfg)
	}
	if cfg.RoutingTimeout != 3*time.Second {
		t.Fatalf("RoutingTimeout=%s, want 3s", cfg.RoutingTimeout)
	}
	if !cfg.IsDev() {
		t.Fatalf("default environment must be dev")
	}
}

func TestLoadReadsEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_BACKEND", "DynamoDB")
	t.Setenv("ROUTING_URL", "http://router.local")
	t.Setenv("ROUTING_API_KEY", "k")
	t.Setenv("ROUTING_TIMEOUT", "750ms")
	t.Chdir(t.TempDir())

	cfg := Load()
	if cfg.IsDev() {
		t.Fatalf("production must not be dev")
	}
	if cfg.StoreBackend != BackendDynamoDB {
		t.Fatalf("StoreBackend=%q, want %q", cfg.StoreBackend, BackendDynamoDB)
	}
	if cfg.RoutingTimeout != 750*time.Millisecond {
		t.Fatalf("RoutingTimeout=%s, want 750ms", cfg.RoutingTimeout)
	}
}

func TestLoadFallsBackOnBadValues(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("ROUTING_TIMEOUT", "soon")
	t.Chdir(t.TempDir())

	cfg := Load()
	if cfg.StoreBackend != BackendSQLite {
		t.Fatalf("StoreBackend=%q, want %q", cfg.StoreBackend, BackendSQLite)
	}
	if cfg.RoutingTimeout != defaultRoutingTimeout {
		t.Fatalf("RoutingTimeout=%s, want %s", cfg.RoutingTimeout, defaultRoutingTimeout)
	}
}

func TestLoadEnvFile_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("KEEP", "already")
	t.Setenv("FRESH", "")
	os.Unsetenv("FRESH")

	path := filepath.Join(t.TempDir(), ".env")
	content := []byte("# comment\nKEEP=fromfile\nexport FRESH=\"two\"\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}
	if got := os.Getenv("KEEP"); got != "already" {
		t.Fatalf("KEEP=%q, want %q", got, "already")
	}
	if got := os.Getenv("FRESH"); got != "two" {
		t.Fatalf("FRESH=%q, want %q", got, "two")
	}
}

func TestLoadEnvFile_MissingFileIsIgnored(t *testing.T) {
	if err := loadEnvFile(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("missing file must be ignored, got %v", err)
	}
}
