package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Simplici0/movequote/internal/db"
	"github.com/Simplici0/movequote/internal/migrations"
	"github.com/Simplici0/movequote/internal/pricing"
	"github.com/Simplici0/movequote/internal/tracked"
)

func newStoreTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "store-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	if err := migrations.Up(database, ""); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

func sampleCharges(jobID string, amount float64) pricing.JobChargeData {
	return pricing.JobChargeData{
		JobID: jobID,
		Items: []pricing.JobChargeItem{
			{
				Type:       pricing.ChargeLoad,
				HourlyRate: tracked.Ptr(169.0, "USD/hour"),
				Hours:      tracked.Ptr(2.0, "hours"),
				Amount:     tracked.New(amount, "USD"),
				IsBillable: tracked.New(true, ""),
			},
			{
				Type:       pricing.ChargeMaterials,
				Amount:     tracked.Override(tracked.New(50.0, "USD"), 40),
				IsBillable: tracked.New(true, ""),
			},
		},
	}
}

// fixedClock returns successive instants one minute apart.
func fixedClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

func TestSQLiteChargesRoundTrip(t *testing.T) {
	repo := NewSQLiteCharges(newStoreTestDB(t))
	ctx := context.Background()

	want := sampleCharges("job-1", 338)
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.JobID != "job-1" || len(got.Items) != 2 {
		t.Fatalf("unexpected charges: %+v", got)
	}
	mat, ok := got.Item(pricing.ChargeMaterials)
	if !ok || !mat.Amount.IsOverridden || mat.Amount.ActualValue == nil || *mat.Amount.ActualValue != 40 {
		t.Fatalf("override lost in storage: %+v", mat)
	}
	if got.Total() != 378 {
		t.Fatalf("total = %v, want 378", got.Total())
	}
}

func TestSQLiteChargesSaveReplaces(t *testing.T) {
	repo := NewSQLiteCharges(newStoreTestDB(t))
	ctx := context.Background()

	if err := repo.Save(ctx, sampleCharges("job-1", 100)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := repo.Save(ctx, sampleCharges("job-1", 200)); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := repo.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	load, _ := got.Item(pricing.ChargeLoad)
	if load.Amount.Value != 200 {
		t.Fatalf("load amount = %v, want 200", load.Amount.Value)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one stored set, got %+v", list)
	}
}

func TestSQLiteChargesGetMissing(t *testing.T) {
	repo := NewSQLiteCharges(newStoreTestDB(t))

	_, err := repo.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteChargesRejectsEmptyJobID(t *testing.T) {
	repo := NewSQLiteCharges(newStoreTestDB(t))

	if err := repo.Save(context.Background(), pricing.JobChargeData{}); err == nil {
		t.Fatalf("expected error for empty job id")
	}
}

func TestSQLiteChargesListOrdersByUpdatedDesc(t *testing.T) {
	repo := NewSQLiteCharges(newStoreTestDB(t))
	repo.now = fixedClock(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for _, id := range []string{"first", "second", "third"} {
		if err := repo.Save(ctx, sampleCharges(id, 100)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	// touching "first" moves it to the top
	if err := repo.Save(ctx, sampleCharges("first", 300)); err != nil {
		t.Fatalf("resave: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 sets, got %d", len(list))
	}
	if list[0].JobID != "first" || list[1].JobID != "third" || list[2].JobID != "second" {
		t.Fatalf("sets are not sorted desc by updated_at: %+v", list)
	}
	if list[0].Total != 340 || list[0].Items != 2 {
		t.Fatalf("unexpected summary: %+v", list[0])
	}
	if !list[0].CreatedAt.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("created_at must survive a resave, got %s", list[0].CreatedAt)
	}
}

func TestLoadHourlyRatesOverlay(t *testing.T) {
	database := newStoreTestDB(t)
	if _, err := database.Exec(`
		INSERT INTO hourly_rates (service_type, crew_size, rate) VALUES
			('Moving', 2, 200),
			('Moving', 3, 260);
		INSERT INTO additional_mover_rates (service_type, rate) VALUES
			('Moving', 75),
			('Packing', 99);
	`); err != nil {
		t.Fatalf("insert rates: %v", err)
	}

	rates, err := LoadHourlyRates(context.Background(), database)
	if err != nil {
		t.Fatalf("load rates: %v", err)
	}
	if len(rates) != 1 {
		t.Fatalf("expected only Moving, got %+v", rates)
	}

	tables := pricing.DefaultTables().WithHourlyRates(rates)
	rate, err := pricing.HourlyRate(tables, pricing.ServiceMoving, 4)
	if err != nil {
		t.Fatalf("hourly rate: %v", err)
	}
	// above the largest stored crew: 260 + 75
	if rate != 335 {
		t.Fatalf("extrapolated rate = %v, want 335", rate)
	}
	packing, err := pricing.HourlyRate(tables, pricing.ServicePacking, 2)
	if err != nil {
		t.Fatalf("hourly rate: %v", err)
	}
	if packing != 139 {
		t.Fatalf("packing keeps the built-in table, got %v", packing)
	}
}
