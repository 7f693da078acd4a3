package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/movequote/internal/export"
	"github.com/Simplici0/movequote/internal/pricing"
	"github.com/Simplici0/movequote/internal/quoting"
	"github.com/Simplici0/movequote/internal/store"
)

const maxBodyBytes = 1 << 20

type server struct {
	quotes *quoting.Service
	now    func() time.Time
}

type errorResponse struct {
	Error string `json:"error"`
}

type chargesResponse struct {
	JobID string                  `json:"job_id"`
	Items []pricing.JobChargeItem `json:"items"`
	Lines []pricing.BreakdownLine `json:"lines"`
	Total float64                 `json:"total"`
}

type overridesRequest struct {
	Overrides []pricing.ChargeOverride `json:"overrides"`
}

type rateView struct {
	ServiceType        pricing.ServiceType `json:"serviceType"`
	ByCrew             map[int]float64     `json:"byCrew"`
	PerAdditionalMover float64             `json:"perAdditionalMover"`
}

func newRouter(s *server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/rates", s.handleRates)

		r.Post("/estimations", s.handleEstimate)
		r.Post("/estimations/quick", s.handleQuickEstimate)
		r.Post("/estimations/breakdown", s.handleEstimateBreakdown)

		r.Post("/pricing", s.handlePrice)
		r.Post("/pricing/quick", s.handleQuickPrice)
		r.Post("/pricing/breakdown", s.handlePriceBreakdown)

		r.Get("/jobs", s.handleJobs)
		r.Get("/jobs/{id}/charges", s.handleGetCharges)
		r.Post("/jobs/{id}/charges", s.handleSaveCharges)
		r.Patch("/jobs/{id}/charges", s.handleOverrideCharges)
		r.Post("/jobs/{id}/charges/rerate", s.handleRerate)
		r.Get("/jobs/{id}/charges.xlsx", s.handleChargesExcel)
		r.Get("/jobs/{id}/charges.pdf", s.handleChargesPDF)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleRates(w http.ResponseWriter, r *http.Request) {
	t := s.quotes.Tables()
	out := make([]rateView, 0, len(t.Rates))
	for _, st := range t.ServiceTypes() {
		table := t.Rates[st]
		out = append(out, rateView{ServiceType: st, ByCrew: table.ByCrew, PerAdditionalMover: table.PerAdditionalMover})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var in pricing.EstimationInputs
	if !decodeJSON(w, r, &in) {
		return
	}
	res := s.quotes.Estimate(in)
	writeResult(w, res.Success, res)
}

func (s *server) handleQuickEstimate(w http.ResponseWriter, r *http.Request) {
	var in pricing.EstimationInputs
	if !decodeJSON(w, r, &in) {
		return
	}
	res := s.quotes.QuickEstimate(in)
	writeResult(w, res.Success, res)
}

func (s *server) handleEstimateBreakdown(w http.ResponseWriter, r *http.Request) {
	var in pricing.EstimationInputs
	if !decodeJSON(w, r, &in) {
		return
	}
	res := s.quotes.EstimateBreakdown(in)
	writeResult(w, res.Success, res)
}

func (s *server) handlePrice(w http.ResponseWriter, r *http.Request) {
	var in pricing.PricingInputs
	if !decodeJSON(w, r, &in) {
		return
	}
	res := s.quotes.Price(r.Context(), in)
	writeResult(w, res.Success, res)
}

func (s *server) handleQuickPrice(w http.ResponseWriter, r *http.Request) {
	var in pricing.PricingInputs
	if !decodeJSON(w, r, &in) {
		return
	}
	res := s.quotes.QuickPrice(r.Context(), in)
	writeResult(w, res.Success, res)
}

func (s *server) handlePriceBreakdown(w http.ResponseWriter, r *http.Request) {
	var in pricing.PricingInputs
	if !decodeJSON(w, r, &in) {
		return
	}
	res := s.quotes.PriceBreakdown(r.Context(), in)
	writeResult(w, res.Success, res)
}

func (s *server) handleJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.quotes.Jobs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *server) handleGetCharges(w http.ResponseWriter, r *http.Request) {
	data, err := s.quotes.Charges(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newChargesResponse(data))
}

func (s *server) handleSaveCharges(w http.ResponseWriter, r *http.Request) {
	var in pricing.PricingInputs
	if !decodeJSON(w, r, &in) {
		return
	}
	in.JobID = chi.URLParam(r, "id")

	res, err := s.quotes.SaveCharges(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	if res.Success {
		writeJSON(w, http.StatusCreated, res)
		return
	}
	writeResult(w, false, res)
}

func (s *server) handleRerate(w http.ResponseWriter, r *http.Request) {
	var in pricing.PricingInputs
	if !decodeJSON(w, r, &in) {
		return
	}

	res, err := s.quotes.Rerate(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, res.Success, res)
}

func (s *server) handleOverrideCharges(w http.ResponseWriter, r *http.Request) {
	var req overridesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Overrides) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "overrides is required"})
		return
	}

	data, err := s.quotes.Override(r.Context(), chi.URLParam(r, "id"), req.Overrides)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newChargesResponse(data))
}

func (s *server) handleChargesExcel(w http.ResponseWriter, r *http.Request) {
	s.writeExport(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.Excel)
}

func (s *server) handleChargesPDF(w http.ResponseWriter, r *http.Request) {
	s.writeExport(w, r, "pdf", "application/pdf", export.PDF)
}

func (s *server) writeExport(w http.ResponseWriter, r *http.Request, ext, contentType string, render func(export.Sheet) ([]byte, error)) {
	jobID := chi.URLParam(r, "id")
	data, err := s.quotes.Charges(r.Context(), jobID)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := render(export.NewSheet(data, s.now()))
	if err != nil {
		writeError(w, fmt.Errorf("render %s for job %s: %w", ext, jobID, err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "charges-"+jobID+"."+ext))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func newChargesResponse(data pricing.JobChargeData) chargesResponse {
	return chargesResponse{
		JobID: data.JobID,
		Items: data.Items,
		Lines: pricing.BreakdownLines(data),
		Total: data.Total(),
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json: " + err.Error()})
		return false
	}
	return true
}

// writeResult sends an engine result; any failed result is 422.
func writeResult(w http.ResponseWriter, ok bool, res any) {
	status := http.StatusOK
	if !ok {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}

func writeError(w http.ResponseWriter, err error) {
	var calcErr *pricing.CalculationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &calcErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, quoting.ErrNoStore):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		log.Printf("request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json response: %v", err)
	}
}
