package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Simplici0/movequote/internal/db"
	"github.com/Simplici0/movequote/internal/migrations"
	"github.com/Simplici0/movequote/internal/pricing"
	"github.com/Simplici0/movequote/internal/quoting"
	"github.com/Simplici0/movequote/internal/store"
)

const localMoveJSON = `{
	"moveSize": "2 Bedroom Apartment",
	"serviceTier": "Full Service",
	"serviceType": "Moving",
	"distanceMiles": 10,
	"driveMinutes": 25
}`

type pricingResponse struct {
	Success  bool                              `json:"success"`
	Data     *pricing.PricingCalculationResult `json:"data"`
	Errors   []pricing.ValidationError         `json:"errors"`
	Warnings []string                          `json:"warnings"`
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "server-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	if err := migrations.Up(database, ""); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	quotes, err := quoting.NewService(nil, nil, store.NewSQLiteCharges(database))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	now := func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC) }
	return newRouter(&server{quotes: quotes, now: now})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, rec.Body.String())
	}
}

func TestPricingEndpoint(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/v1/pricing", localMoveJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var res pricingResponse
	decodeBody(t, rec, &res)
	if !res.Success || res.Data.TotalCost != 929.5 {
		t.Fatalf("unexpected pricing: %+v", res)
	}
}

func TestPricingEndpointValidation(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/v1/pricing", `{"serviceTier": "Full Service"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want 422", rec.Code)
	}
	var res pricingResponse
	decodeBody(t, rec, &res)
	if res.Success || len(res.Errors) == 0 {
		t.Fatalf("expected validation errors: %+v", res)
	}
}

func TestMalformedJSON(t *testing.T) {
	h := newTestServer(t)

	for _, body := range []string{`{`, `{"moveSize": 3}`, `{"unknownField": true}`} {
		rec := do(t, h, http.MethodPost, "/v1/pricing", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status=%d, want 400", body, rec.Code)
		}
	}
}

func TestEstimationEndpoints(t *testing.T) {
	h := newTestServer(t)
	body := `{"propertyType": "Apartment", "bedrooms": 2, "packingIntensity": "Normal"}`

	for _, path := range []string{"/v1/estimations", "/v1/estimations/quick", "/v1/estimations/breakdown"} {
		rec := do(t, h, http.MethodPost, path, body)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status=%d body=%s", path, rec.Code, rec.Body.String())
		}
	}

	rec := do(t, h, http.MethodPost, "/v1/estimations", `{"propertyType": "House", "fixedEstimateType": "Studio Apartment", "packingIntensity": "Normal"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("contradictory estimation: status=%d, want 422", rec.Code)
	}
}

func TestChargesLifecycle(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/v1/jobs/job-1/charges", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing job: status=%d, want 404", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/v1/jobs/job-1/charges", localMoveJSON)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPatch, "/v1/jobs/job-1/charges", `{"overrides": [{"type": "load", "field": "amount", "value": 400}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("override: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var charges chargesResponse
	decodeBody(t, rec, &charges)
	if charges.Total != 822.5 {
		t.Fatalf("total after override = %v, want 822.5", charges.Total)
	}

	rerate := strings.Replace(localMoveJSON, `"driveMinutes": 25`, `"driveMinutes": 50`, 1)
	rec = do(t, h, http.MethodPost, "/v1/jobs/job-1/charges/rerate", rerate)
	if rec.Code != http.StatusOK {
		t.Fatalf("rerate: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var res pricingResponse
	decodeBody(t, rec, &res)
	if res.Data.TotalCost != 907 {
		t.Fatalf("rerated total = %v, want 907", res.Data.TotalCost)
	}

	rec = do(t, h, http.MethodGet, "/v1/jobs", "")
	var jobs []store.ChargeSummary
	decodeBody(t, rec, &jobs)
	if len(jobs) != 1 || jobs[0].JobID != "job-1" || jobs[0].Total != 907 {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}
}

func TestOverrideErrors(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPatch, "/v1/jobs/nope/charges", `{"overrides": [{"type": "load", "field": "amount", "value": 1}]}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown job: status=%d, want 404", rec.Code)
	}

	do(t, h, http.MethodPost, "/v1/jobs/job-2/charges", localMoveJSON)
	rec = do(t, h, http.MethodPatch, "/v1/jobs/job-2/charges", `{"overrides": [{"type": "fuel", "field": "amount", "value": 1}]}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing charge: status=%d, want 422", rec.Code)
	}

	rec = do(t, h, http.MethodPatch, "/v1/jobs/job-2/charges", `{"overrides": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty overrides: status=%d, want 400", rec.Code)
	}
}

func TestRerateUnknownJob(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/v1/jobs/nope/charges/rerate", localMoveJSON)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", rec.Code)
	}
}

func TestChargeExports(t *testing.T) {
	h := newTestServer(t)
	do(t, h, http.MethodPost, "/v1/jobs/job-3/charges", localMoveJSON)

	rec := do(t, h, http.MethodGet, "/v1/jobs/job-3/charges.xlsx", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("xlsx: status=%d body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("xlsx content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "charges-job-3.xlsx") {
		t.Fatalf("xlsx disposition = %q", cd)
	}

	rec = do(t, h, http.MethodGet, "/v1/jobs/job-3/charges.pdf", "")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "%PDF-") {
		t.Fatalf("pdf: status=%d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/v1/jobs/missing/charges.pdf", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing pdf: status=%d, want 404", rec.Code)
	}
}

func TestRatesEndpoint(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/v1/rates", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var rates []rateView
	decodeBody(t, rec, &rates)
	if len(rates) != len(pricing.DefaultTables().Rates) {
		t.Fatalf("expected every service type, got %d", len(rates))
	}
}
