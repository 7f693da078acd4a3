package quoting

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/Simplici0/movequote/internal/db"
	"github.com/Simplici0/movequote/internal/distance"
	"github.com/Simplici0/movequote/internal/distance/mocks"
	"github.com/Simplici0/movequote/internal/migrations"
	"github.com/Simplici0/movequote/internal/pricing"
	"github.com/Simplici0/movequote/internal/store"

	"go.uber.org/mock/gomock"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func floatPtr(v float64) *float64 { return &v }

func localMove() pricing.PricingInputs {
	return pricing.PricingInputs{
		MoveSize:      "2 Bedroom Apartment",
		ServiceTier:   pricing.TierFullService,
		ServiceType:   pricing.ServiceMoving,
		DistanceMiles: 10,
		DriveMinutes:  floatPtr(25),
	}
}

func newTestService(t *testing.T, resolver *distance.Resolver) *Service {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "quoting-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	if err := migrations.Up(database, ""); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	svc, err := NewService(nil, resolver, store.NewSQLiteCharges(database))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.newJobID = func() string { return "job-generated" }
	return svc
}

func TestSaveChargesAssignsJobID(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	res, err := svc.SaveCharges(ctx, localMove())
	if err != nil {
		t.Fatalf("save charges: %v", err)
	}
	if !res.Success || res.Data.JobID != "job-generated" {
		t.Fatalf("unexpected result: %+v", res)
	}

	stored, err := svc.Charges(ctx, "job-generated")
	if err != nil {
		t.Fatalf("get charges: %v", err)
	}
	nearlyEqual(t, "stored total", stored.Total(), 929.5)

	jobs, err := svc.Jobs(ctx)
	if err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].JobID != "job-generated" {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}
}

func TestSaveChargesInvalidStoresNothing(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	res, err := svc.SaveCharges(ctx, pricing.PricingInputs{JobID: "bad"})
	if err != nil {
		t.Fatalf("validation failure must not be an error: %v", err)
	}
	if res.Success || len(res.Errors) == 0 {
		t.Fatalf("expected validation errors")
	}
	if _, err := svc.Charges(ctx, "bad"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected nothing stored, got %v", err)
	}
}

func TestPriceUsesResolvedStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	provider := mocks.NewMockProvider(ctrl)

	provider.EXPECT().Route(gomock.Any(), gomock.Len(1)).Return([]distance.LegResult{
		{DistanceInMiles: 120, DurationInMinutes: 130, Status: distance.StatusOK},
	}, nil)

	svc := newTestService(t, distance.NewResolver(provider, time.Second))
	in := localMove()
	in.Stops = []distance.Stop{
		{FullAddress: "1 Main St", Zip: "10001"},
		{FullAddress: "9 Far Rd", Zip: "12201"},
	}

	res := svc.Price(context.Background(), in)
	if !res.Success {
		t.Fatalf("price failed: %+v", res.Errors)
	}
	nearlyEqual(t, "distance", res.Data.MoveDistance, 120)
	if res.Data.MoveType == pricing.MoveLocal {
		t.Fatalf("120 mi must not be local")
	}
}

func TestPriceDegradedRouteWarns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	provider := mocks.NewMockProvider(ctrl)

	provider.EXPECT().Route(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	svc := newTestService(t, distance.NewResolver(provider, time.Second))
	in := localMove()
	in.Stops = []distance.Stop{
		{FullAddress: "1 Main St", Zip: "10001"},
		{FullAddress: "2 Oak Ave", Zip: "10021"},
	}

	res := svc.Price(context.Background(), in)
	if !res.Success {
		t.Fatalf("degraded distance must not fail pricing: %+v", res.Errors)
	}
	if !res.Data.DistanceDegraded || len(res.Warnings) == 0 {
		t.Fatalf("expected degraded distance warning: %+v", res.Warnings)
	}
}

func TestRerateKeepsOverrides(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	in := localMove()
	in.JobID = "job-7"
	if _, err := svc.SaveCharges(ctx, in); err != nil {
		t.Fatalf("save charges: %v", err)
	}
	if _, err := svc.Override(ctx, "job-7", []pricing.ChargeOverride{
		{Type: pricing.ChargeLoad, Field: pricing.FieldAmount, Value: floatPtr(400)},
	}); err != nil {
		t.Fatalf("override: %v", err)
	}

	in.JobID = ""
	in.DriveMinutes = floatPtr(50)
	res, err := svc.Rerate(ctx, "job-7", in)
	if err != nil {
		t.Fatalf("rerate: %v", err)
	}
	if !res.Success {
		t.Fatalf("rerate failed: %+v", res.Errors)
	}
	// load 400 (kept) + travel 1h at 169 + unload 338
	nearlyEqual(t, "total", res.Data.TotalCost, 907)

	stored, err := svc.Charges(ctx, "job-7")
	if err != nil {
		t.Fatalf("get charges: %v", err)
	}
	load, _ := stored.Item(pricing.ChargeLoad)
	if !load.Amount.IsOverridden || load.Amount.Value != 400 {
		t.Fatalf("override lost after rerate: %+v", load.Amount)
	}
	nearlyEqual(t, "stored total", stored.Total(), 907)
}

func TestRerateUnknownJob(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Rerate(context.Background(), "missing", localMove())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOverrideRejectsUnknownCharge(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	in := localMove()
	in.JobID = "job-8"
	if _, err := svc.SaveCharges(ctx, in); err != nil {
		t.Fatalf("save charges: %v", err)
	}

	_, err := svc.Override(ctx, "job-8", []pricing.ChargeOverride{
		{Type: pricing.ChargeFuel, Field: pricing.FieldAmount, Value: floatPtr(1)},
	})
	if !errors.Is(err, pricing.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestServiceWithoutStore(t *testing.T) {
	svc, err := NewService(nil, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if res := svc.Price(context.Background(), localMove()); !res.Success {
		t.Fatalf("pricing must work without a store: %+v", res.Errors)
	}
	if _, err := svc.SaveCharges(context.Background(), localMove()); !errors.Is(err, ErrNoStore) {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
}
