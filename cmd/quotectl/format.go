package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Simplici0/movequote/internal/export"
	"github.com/Simplici0/movequote/internal/pricing"
)

func printWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(w, "warning: %s\n", msg)
	}
}

func printErrors(w io.Writer, errs []pricing.ValidationError) {
	fmt.Fprintf(w, "Calculation failed:\n")
	for _, e := range errs {
		fmt.Fprintf(w, "  %-20s %-18s %s\n", e.Field, e.Code, e.Message)
	}
}

func printEstimate(w io.Writer, e *pricing.EstimateResult) {
	fmt.Fprintf(w, "=== Estimate (%s) ===\n", e.Boxes.Mode)
	fmt.Fprintf(w, "Boxes:            %d\n", e.Boxes.TotalBoxes)
	fmt.Fprintf(w, "Recommended crew: %d\n", e.RecommendedCrewSize)
	fmt.Fprintf(w, "Workers:          %d\n", e.Workers)
	fmt.Fprintf(w, "Packing:          %.2f h\n", e.Packing.Hours)
	fmt.Fprintf(w, "Unpacking:        %.2f h\n", e.Unpacking.Hours)
	fmt.Fprintf(w, "Total labor:      %.2f h\n", e.TotalLaborHours)

	fmt.Fprintf(w, "\n%-14s %6s %10s %12s\n", "Box", "Count", "Unit", "Total")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 45))
	for _, l := range e.Materials.Lines {
		fmt.Fprintf(w, "%-14s %6d %10s %12s\n", l.Type, l.Count, export.FormatUSD(l.UnitPrice), export.FormatUSD(l.Total))
	}
	if e.Materials.TVRentalTotal > 0 {
		fmt.Fprintf(w, "%-14s %6s %10s %12s\n", "TV rental", "", export.FormatUSD(e.Materials.TVRentalPrice), export.FormatUSD(e.Materials.TVRentalTotal))
	}
	fmt.Fprintf(w, "%-32s %12s\n", "Materials", export.FormatUSD(e.Materials.TotalWithRental))
}

func printQuickEstimate(w io.Writer, q *pricing.QuickEstimate) {
	fmt.Fprintf(w, "Boxes %d, crew %d, packing %.2f h, unpacking %.2f h, materials %s\n",
		q.TotalBoxes, q.RecommendedCrewSize, q.PackingHours, q.UnpackingHours, export.FormatUSD(q.MaterialCost))
}

func printEstimationBreakdown(w io.Writer, b *pricing.EstimationBreakdown) {
	fmt.Fprintf(w, "=== Estimation breakdown (%s, x%.2f) ===\n", b.Mode, b.Multiplier)
	for _, r := range b.Rooms {
		fmt.Fprintf(w, "  room %-16s %d\n", r.Room, r.Count)
	}
	fmt.Fprintf(w, "\n%-14s %5s %6s %10s %9s %9s\n", "Box", "Base", "Count", "Cost", "Pack min", "Unpk min")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 58))
	for _, l := range b.Lines {
		fmt.Fprintf(w, "%-14s %5d %6d %10s %9.1f %9.1f\n",
			l.Type, l.BaseCount, l.Count, export.FormatUSD(l.MaterialCost), l.PackingMinutes, l.UnpackingMinutes)
	}
	fmt.Fprintf(w, "\nMaterials %s (TV rental %s), packing %.2f h, unpacking %.2f h\n",
		export.FormatUSD(b.MaterialTotal), export.FormatUSD(b.TVRentalTotal), b.PackingHours, b.UnpackingHours)
}

func printPricing(w io.Writer, p *pricing.PricingCalculationResult) {
	fmt.Fprintf(w, "=== %s %s (%s) ===\n", p.ServiceTier, p.ServiceType, p.MoveType)
	if p.JobID != "" {
		fmt.Fprintf(w, "Job:          %s\n", p.JobID)
	}
	fmt.Fprintf(w, "Volume:       %.0f cu ft\n", p.CubicFeet)
	fmt.Fprintf(w, "Crew:         %d (base %d)\n", p.CrewSize, p.BaseCrewSize)
	fmt.Fprintf(w, "Hourly rate:  %s\n", export.FormatUSD(p.HourlyRate))
	degraded := ""
	if p.DistanceDegraded {
		degraded = " (estimated)"
	}
	fmt.Fprintf(w, "Distance:     %.1f mi%s\n", p.MoveDistance, degraded)
	fmt.Fprintf(w, "Billed hours: %.2f over %d day(s)\n", p.BilledHours, p.DaySplit.Days)

	printCharges(w, p.Charges)
}

func printCharges(w io.Writer, data pricing.JobChargeData) {
	fmt.Fprintf(w, "\n%-20s %7s %5s %10s %12s\n", "Charge", "Hours", "Crew", "Rate", "Amount")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 58))
	for _, it := range data.Items {
		hours, crew, rate := "", "", ""
		if it.Hours != nil {
			hours = fmt.Sprintf("%.2f", it.Hours.Value)
		}
		if it.NumberOfCrew != nil {
			crew = fmt.Sprintf("%d", it.NumberOfCrew.Value)
		}
		if it.HourlyRate != nil {
			rate = export.FormatUSD(it.HourlyRate.Value)
		}
		mark := ""
		if !it.IsBillable.Value {
			mark = " (not billed)"
		} else if it.Overridden() {
			mark = " *"
		}
		fmt.Fprintf(w, "%-20s %7s %5s %10s %12s%s\n", export.Label(it.Type), hours, crew, rate, export.FormatUSD(it.Amount.Value), mark)
	}
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 58))
	fmt.Fprintf(w, "%-45s %12s\n", "Total", export.FormatUSD(data.Total()))
}

func printQuickPrice(w io.Writer, q *pricing.QuickPrice) {
	fmt.Fprintf(w, "%s move, crew %d at %s/h, %.2f h over %d day(s): %s\n",
		q.MoveType, q.CrewSize, export.FormatUSD(q.HourlyRate), q.BilledHours, q.Days, export.FormatUSD(q.TotalCost))
}

func printPricingBreakdown(w io.Writer, b *pricing.PricingBreakdown) {
	fmt.Fprintf(w, "=== Pricing breakdown (%s) ===\n", b.MoveType)
	fmt.Fprintf(w, "Crew %d at %s/h, modifier %.2f, travel %.2f h, billed %.2f h\n",
		b.CrewSize, export.FormatUSD(b.HourlyRate), b.Modifier, b.TravelHours, b.BilledHours)
	if len(b.Days) > 1 {
		days := make([]string, len(b.Days))
		for i, h := range b.Days {
			days[i] = fmt.Sprintf("%.2f", h)
		}
		fmt.Fprintf(w, "Days: %s\n", strings.Join(days, " / "))
	}

	fmt.Fprintf(w, "\n%-20s %7s %5s %10s %12s\n", "Line", "Hours", "Crew", "Rate", "Amount")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 58))
	for _, l := range b.Lines {
		label := export.Label(l.Type)
		if l.Description != "" {
			label = l.Description
		}
		mark := ""
		if !l.Billable {
			mark = " (not billed)"
		}
		fmt.Fprintf(w, "%-20s %7.2f %5d %10s %12s%s\n", label, l.Hours, l.Crew, export.FormatUSD(l.Rate), export.FormatUSD(l.Amount), mark)
	}
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 58))
	fmt.Fprintf(w, "%-45s %12s\n", "Total", export.FormatUSD(b.Total))
	printWarnings(w, b.Warnings)
}
