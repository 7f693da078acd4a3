// Package distance resolves driving distance and duration for a job's stops.
//
// A Provider answers per-leg lookups. The Resolver wraps it with a fallback
// chain (provider, then postal-code estimate, then a fixed per-leg default) so
// that a quote can always be produced; every fallback is logged and reported as
// a warning on the returned Route.
package distance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"
)

//go:generate mockgen -source=distance.go -destination=mocks/mock_provider.go -package=mocks

// Leg statuses.
const (
	StatusOK       = "OK"
	StatusNotFound = "NOT_FOUND"
)

// Route sources.
const (
	SourceProvider = "provider"
	SourceZip      = "zip_estimate"
	SourceDefault  = "default"
	SourceInput    = "input"
)

var ErrTooFewStops = errors.New("at least two stops are required")

// Stop is one address on the route.
type Stop struct {
	FullAddress string `json:"fullAddress" yaml:"fullAddress"`
	Zip         string `json:"zip,omitempty" yaml:"zip,omitempty"`
}

// Leg is a pair of consecutive stops.
type Leg struct {
	From Stop `json:"from"`
	To   Stop `json:"to"`
}

// LegResult is the provider's answer for one leg.
type LegResult struct {
	DistanceInMiles   float64 `json:"distanceInMiles"`
	DurationInMinutes float64 `json:"durationInMinutes"`
	Status            string  `json:"status"`
	Source            string  `json:"source,omitempty"`
}

// Route is the summed result across legs.
type Route struct {
	DistanceInMiles   float64     `json:"distanceInMiles"`
	DurationInMinutes float64     `json:"durationInMinutes"`
	Legs              []LegResult `json:"legs"`
	Degraded          bool        `json:"degraded"`
	Warnings          []string    `json:"warnings,omitempty"`
}

// Provider looks up driving distance and duration for each leg, in order.
type Provider interface {
	Route(ctx context.Context, legs []Leg) ([]LegResult, error)
}

// Fallback holds the constants of the degraded estimates.
type Fallback struct {
	ZipMilesPerUnit   float64
	MinZipMiles       float64
	MaxZipMiles       float64
	SpeedMPH          float64
	DefaultLegMiles   float64
	DefaultLegMinutes float64
}

// DefaultFallback returns the built-in fallback constants.
func DefaultFallback() Fallback {
	return Fallback{
		ZipMilesPerUnit:   0.5,
		MinZipMiles:       5,
		MaxZipMiles:       3000,
		SpeedMPH:          40,
		DefaultLegMiles:   15,
		DefaultLegMinutes: 30,
	}
}

// Resolver resolves routes with a fallback chain. A nil provider skips straight
// to the postal-code estimate.
type Resolver struct {
	provider Provider
	timeout  time.Duration
	fallback Fallback
}

// NewResolver builds a Resolver. A zero timeout leaves the caller's context
// deadline in charge.
func NewResolver(provider Provider, timeout time.Duration) *Resolver {
	return &Resolver{provider: provider, timeout: timeout, fallback: DefaultFallback()}
}

// WithFallback replaces the fallback constants.
func (r *Resolver) WithFallback(f Fallback) *Resolver {
	r.fallback = f
	return r
}

// Legs pairs consecutive stops.
func Legs(stops []Stop) ([]Leg, error) {
	if len(stops) < 2 {
		return nil, ErrTooFewStops
	}
	legs := make([]Leg, 0, len(stops)-1)
	for i := 1; i < len(stops); i++ {
		legs = append(legs, Leg{From: stops[i-1], To: stops[i]})
	}
	return legs, nil
}

// Resolve returns the summed route for the stops. Provider failures never
// surface as errors; they degrade the route instead.
func (r *Resolver) Resolve(ctx context.Context, stops []Stop) (Route, error) {
	legs, err := Legs(stops)
	if err != nil {
		return Route{}, err
	}

	results, err := r.lookup(ctx, legs)
	route := Route{Legs: make([]LegResult, len(legs))}
	if err != nil {
		log.Printf("[distance][fallback] provider failed for %d legs: %v", len(legs), err)
		route.Warnings = append(route.Warnings, fmt.Sprintf("routing provider unavailable (%v); distances are estimated", err))
		results = nil
	}

	for i, leg := range legs {
		if i < len(results) && results[i].Status == StatusOK && results[i].DistanceInMiles >= 0 {
			res := results[i]
			res.Source = SourceProvider
			route.Legs[i] = res
			continue
		}
		if results != nil {
			status := "missing"
			if i < len(results) {
				status = results[i].Status
			}
			log.Printf("[distance][fallback] leg %d %q -> %q returned status %s", i, leg.From.FullAddress, leg.To.FullAddress, status)
			route.Warnings = append(route.Warnings, fmt.Sprintf("leg %d: routing status %s; distance is estimated", i+1, status))
		}
		route.Legs[i] = r.estimateLeg(i, leg, &route)
	}

	for _, res := range route.Legs {
		route.DistanceInMiles += res.DistanceInMiles
		route.DurationInMinutes += res.DurationInMinutes
		if res.Source != SourceProvider {
			route.Degraded = true
		}
	}
	return route, nil
}

func (r *Resolver) lookup(ctx context.Context, legs []Leg) ([]LegResult, error) {
	if r.provider == nil {
		return nil, errors.New("no routing provider configured")
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	results, err := r.provider.Route(ctx, legs)
	if err != nil {
		return nil, fmt.Errorf("route lookup: %w", err)
	}
	return results, nil
}

func (r *Resolver) estimateLeg(i int, leg Leg, route *Route) LegResult {
	if miles, ok := r.zipMiles(leg); ok {
		log.Printf("[distance][fallback] leg %d estimated from postal codes %s -> %s: %.1f mi", i, leg.From.Zip, leg.To.Zip, miles)
		route.Warnings = append(route.Warnings, fmt.Sprintf("leg %d: distance estimated from postal codes", i+1))
		return LegResult{
			DistanceInMiles:   miles,
			DurationInMinutes: miles / r.fallback.SpeedMPH * 60,
			Status:            StatusOK,
			Source:            SourceZip,
		}
	}

	log.Printf("[distance][fallback] leg %d has no usable postal codes, using default %.0f mi / %.0f min", i, r.fallback.DefaultLegMiles, r.fallback.DefaultLegMinutes)
	route.Warnings = append(route.Warnings, fmt.Sprintf("leg %d: no routing data, default distance applied", i+1))
	return LegResult{
		DistanceInMiles:   r.fallback.DefaultLegMiles,
		DurationInMinutes: r.fallback.DefaultLegMinutes,
		Status:            StatusOK,
		Source:            SourceDefault,
	}
}

// zipMiles estimates a leg from the numeric difference of 5-digit postal codes.
// Identical codes count as the minimum distance.
func (r *Resolver) zipMiles(leg Leg) (float64, bool) {
	from, ok := parseZip(leg.From.Zip)
	if !ok {
		return 0, false
	}
	to, ok := parseZip(leg.To.Zip)
	if !ok {
		return 0, false
	}
	miles := math.Abs(float64(from-to)) * r.fallback.ZipMilesPerUnit
	miles = math.Max(miles, r.fallback.MinZipMiles)
	miles = math.Min(miles, r.fallback.MaxZipMiles)
	return miles, true
}

func parseZip(zip string) (int, bool) {
	zip = strings.TrimSpace(zip)
	if i := strings.IndexByte(zip, '-'); i >= 0 {
		zip = zip[:i]
	}
	if len(zip) != 5 {
		return 0, false
	}
	n, err := strconv.Atoi(zip)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
