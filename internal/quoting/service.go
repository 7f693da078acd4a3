// Package quoting runs the pricing engine for callers that need distances
// resolved and charge sets persisted.
package quoting

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Simplici0/movequote/internal/distance"
	"github.com/Simplici0/movequote/internal/pricing"
	"github.com/Simplici0/movequote/internal/store"

	"github.com/google/uuid"
)

// ErrNoStore is returned by persisting operations on a Service built without a repository.
var ErrNoStore = errors.New("charge store is not configured")

// Service wires the pure engine to a distance resolver and a charge repository.
type Service struct {
	tables   *pricing.Tables
	resolver *distance.Resolver
	charges  store.ChargeRepository
	newJobID func() string
}

// NewService validates tables (nil means the built-in tables). A nil resolver
// estimates every route from postal codes; a nil repository disables the
// persisting operations.
func NewService(tables *pricing.Tables, resolver *distance.Resolver, charges store.ChargeRepository) (*Service, error) {
	if tables == nil {
		tables = pricing.DefaultTables()
	}
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("validate pricing tables: %w", err)
	}
	if resolver == nil {
		resolver = distance.NewResolver(nil, 0)
	}
	return &Service{
		tables:   tables,
		resolver: resolver,
		charges:  charges,
		newJobID: uuid.NewString,
	}, nil
}

// Tables returns the rate tables the service prices with.
func (s *Service) Tables() *pricing.Tables {
	return s.tables
}

// Estimate runs the full box, material and labor estimate.
func (s *Service) Estimate(in pricing.EstimationInputs) pricing.Result[pricing.EstimateResult] {
	return pricing.CalculateComprehensiveEstimation(s.tables, in)
}

// QuickEstimate returns only the headline estimate numbers.
func (s *Service) QuickEstimate(in pricing.EstimationInputs) pricing.Result[pricing.QuickEstimate] {
	return pricing.CalculateQuickEstimation(s.tables, in)
}

// EstimateBreakdown returns the per-box-type estimate view.
func (s *Service) EstimateBreakdown(in pricing.EstimationInputs) pricing.Result[pricing.EstimationBreakdown] {
	return pricing.GetEstimationBreakdown(s.tables, in)
}

// Price resolves the route for in.Stops, if any, then prices the job.
func (s *Service) Price(ctx context.Context, in pricing.PricingInputs) pricing.Result[pricing.PricingCalculationResult] {
	route := s.route(ctx, in)
	return pricing.CalculatePricing(s.tables, in, route)
}

// QuickPrice is Price reduced to the headline numbers.
func (s *Service) QuickPrice(ctx context.Context, in pricing.PricingInputs) pricing.Result[pricing.QuickPrice] {
	route := s.route(ctx, in)
	return pricing.CalculateQuickPrice(s.tables, in, route)
}

// PriceBreakdown is Price as line-by-line display values.
func (s *Service) PriceBreakdown(ctx context.Context, in pricing.PricingInputs) pricing.Result[pricing.PricingBreakdown] {
	route := s.route(ctx, in)
	return pricing.GetPricingBreakdown(s.tables, in, route)
}

// route returns nil when the job has no stops or too few of them; validation
// reports the latter.
func (s *Service) route(ctx context.Context, in pricing.PricingInputs) *distance.Route {
	if len(in.Stops) < 2 {
		return nil
	}
	r, err := s.resolver.Resolve(ctx, in.Stops)
	if err != nil {
		log.Printf("[quoting] resolve route for job %q: %v", in.JobID, err)
		return nil
	}
	return &r
}

// SaveCharges prices the job and stores its charge set, replacing any stored
// set and its overrides. A job id is generated when in.JobID is empty.
// Invalid inputs come back in the result and nothing is stored.
func (s *Service) SaveCharges(ctx context.Context, in pricing.PricingInputs) (pricing.Result[pricing.PricingCalculationResult], error) {
	if s.charges == nil {
		return pricing.Result[pricing.PricingCalculationResult]{}, ErrNoStore
	}
	if in.JobID == "" {
		in.JobID = s.newJobID()
	}

	res := s.Price(ctx, in)
	if !res.Success {
		return res, nil
	}
	if err := s.charges.Save(ctx, res.Data.Charges); err != nil {
		return res, fmt.Errorf("save charges for job %s: %w", in.JobID, err)
	}
	return res, nil
}

// Rerate prices the job again from in and merges the stored charge set into
// the fresh one so user overrides survive. Returns store.ErrNotFound when the
// job was never priced.
func (s *Service) Rerate(ctx context.Context, jobID string, in pricing.PricingInputs) (pricing.Result[pricing.PricingCalculationResult], error) {
	if s.charges == nil {
		return pricing.Result[pricing.PricingCalculationResult]{}, ErrNoStore
	}
	old, err := s.charges.Get(ctx, jobID)
	if err != nil {
		return pricing.Result[pricing.PricingCalculationResult]{}, err
	}

	in.JobID = jobID
	res := s.Price(ctx, in)
	if !res.Success {
		return res, nil
	}

	merged, warnings := pricing.Rerate(old, res.Data.Charges)
	res.Data.Charges = merged
	res.Data.TotalCost = merged.Total()
	res.Warnings = append(res.Warnings, warnings...)

	if err := s.charges.Save(ctx, merged); err != nil {
		return res, fmt.Errorf("save rerated charges for job %s: %w", jobID, err)
	}
	return res, nil
}

// Override applies user actuals to a stored charge set.
func (s *Service) Override(ctx context.Context, jobID string, overrides []pricing.ChargeOverride) (pricing.JobChargeData, error) {
	if s.charges == nil {
		return pricing.JobChargeData{}, ErrNoStore
	}
	data, err := s.charges.Get(ctx, jobID)
	if err != nil {
		return pricing.JobChargeData{}, err
	}
	out, err := pricing.ApplyOverrides(data, overrides)
	if err != nil {
		return pricing.JobChargeData{}, err
	}
	if err := s.charges.Save(ctx, out); err != nil {
		return pricing.JobChargeData{}, fmt.Errorf("save overrides for job %s: %w", jobID, err)
	}
	return out, nil
}

// Charges returns the stored charge set for a job.
func (s *Service) Charges(ctx context.Context, jobID string) (pricing.JobChargeData, error) {
	if s.charges == nil {
		return pricing.JobChargeData{}, ErrNoStore
	}
	return s.charges.Get(ctx, jobID)
}

// Jobs lists stored charge sets, most recently updated first.
func (s *Service) Jobs(ctx context.Context) ([]store.ChargeSummary, error) {
	if s.charges == nil {
		return nil, ErrNoStore
	}
	return s.charges.List(ctx)
}
