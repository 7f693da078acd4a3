package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenSetsPragmas(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "open-test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer database.Close()

	var fk int
	if err := database.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("read foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Fatalf("foreign_keys=%d, want 1", fk)
	}
}

func TestDynamoDBConfigFromEnv(t *testing.T) {
	t.Setenv("AWS_REGION", "sa-east-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("DYNAMODB_ENDPOINT", "http://localhost:8000")

	cfg, err := DynamoDBConfigFromEnv(context.Background())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Region != "sa-east-1" {
		t.Fatalf("region=%q, want sa-east-1", cfg.Region)
	}
	creds, err := cfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve credentials: %v", err)
	}
	if creds.AccessKeyID != "local" {
		t.Fatalf("access key=%q, want local", creds.AccessKeyID)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestOpenMemoryKeepsOneDatabase(t *testing.T) {
	database, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer database.Close()

	if _, err := database.Exec(`CREATE TABLE probe (id INTEGER)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	var n int
	if err := database.QueryRow(`SELECT COUNT(*) FROM probe`).Scan(&n); err != nil {
		t.Fatalf("table must be visible on the pooled connection: %v", err)
	}
}
