package pricing

import (
	"fmt"

	"github.com/Simplici0/movequote/internal/distance"
)

// PricingCalculationResult contains every intermediate value of a priced job
// along with its itemized charges.
type PricingCalculationResult struct {
	JobID       string      `json:"jobId,omitempty"`
	ServiceTier ServiceTier `json:"serviceTier"`
	ServiceType ServiceType `json:"serviceType"`
	CubicFeet   float64     `json:"cubicFeet"`

	BaseCrewSize           int            `json:"baseCrewSize"`
	CrewSize               int            `json:"crewSize"`
	CrewAdjustment         CrewAdjustment `json:"crewAdjustment"`
	BoxRecommendedCrewSize int            `json:"boxRecommendedCrewSize,omitempty"`
	Handicap               Handicap       `json:"handicap"`

	HourlyRate  float64    `json:"hourlyRate"`
	Emergency   bool       `json:"emergency"`
	Moving      MovingTime `json:"moving"`
	Packing     *LaborTime `json:"packing,omitempty"`
	Unpacking   *LaborTime `json:"unpacking,omitempty"`
	Base        BaseTime   `json:"baseTime"`
	LoadHours   float64    `json:"loadHours"`
	UnloadHours float64    `json:"unloadHours"`

	MoveDistance     float64  `json:"moveDistance"`
	MoveType         MoveType `json:"moveType"`
	DistanceDegraded bool     `json:"distanceDegraded"`
	Travel           Travel   `json:"travel"`

	Boxes     *BoxAllocation `json:"boxes,omitempty"`
	Materials *Materials     `json:"materials,omitempty"`

	BilledHours         float64 `json:"billedHours"`
	LaborCost           float64 `json:"laborCost"`
	MaterialCost        float64 `json:"materialCost"`
	AdditionalTruckCost float64 `json:"additionalTruckCost"`
	SpecialItemsCost    float64 `json:"specialItemsCost"`

	// Accessibility affects time, never a direct line cost; these stay zero.
	AdditionalMoverCost     float64 `json:"additionalMoverCost"`
	OriginHandicapCost      float64 `json:"originHandicapCost"`
	DestinationHandicapCost float64 `json:"destinationHandicapCost"`

	DaySplit  DaySplit      `json:"daySplit"`
	Charges   JobChargeData `json:"charges"`
	TotalCost float64       `json:"totalCost"`
}

// QuickPrice is the headline view of a priced job.
type QuickPrice struct {
	CrewSize    int      `json:"crewSize"`
	HourlyRate  float64  `json:"hourlyRate"`
	BilledHours float64  `json:"billedHours"`
	MoveType    MoveType `json:"moveType"`
	Days        int      `json:"days"`
	TotalCost   float64  `json:"totalCost"`
}

// BreakdownLine is one displayed charge.
type BreakdownLine struct {
	Type        ChargeType `json:"type"`
	Description string     `json:"description,omitempty"`
	Hours       float64    `json:"hours,omitempty"`
	Crew        int        `json:"crew,omitempty"`
	Rate        float64    `json:"rate,omitempty"`
	Amount      float64    `json:"amount"`
	Billable    bool       `json:"billable"`
}

// PricingBreakdown is the display view of a priced job.
type PricingBreakdown struct {
	CrewSize    int             `json:"crewSize"`
	HourlyRate  float64         `json:"hourlyRate"`
	MoveType    MoveType        `json:"moveType"`
	Modifier    float64         `json:"modifier"`
	TravelHours float64         `json:"travelHours"`
	BilledHours float64         `json:"billedHours"`
	Days        []float64       `json:"days"`
	Lines       []BreakdownLine `json:"lines"`
	Total       float64         `json:"total"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// CalculatePricing prices a job. route is the externally resolved distance for
// the job's stops; when nil the input distance (and drive minutes, or a
// duration derived from the default travel speed) is used.
func CalculatePricing(t *Tables, in PricingInputs, route *distance.Route) Result[PricingCalculationResult] {
	var warnings []string
	if in.Estimation != nil {
		est, w := defaultScenario(*in.Estimation)
		in.Estimation = &est
		warnings = append(warnings, w...)
	}
	if errs := ValidatePricingInputs(t, in); len(errs) > 0 {
		return invalid[PricingCalculationResult](errs, warnings)
	}

	res, w, err := price(t, in, route)
	warnings = append(warnings, w...)
	if err != nil {
		return failed[PricingCalculationResult](err, warnings)
	}
	return succeed(res, warnings)
}

func price(t *Tables, in PricingInputs, route *distance.Route) (PricingCalculationResult, []string, error) {
	var warnings []string
	res := PricingCalculationResult{
		JobID:       in.JobID,
		ServiceTier: in.ServiceTier,
		ServiceType: in.ServiceType,
		Emergency:   in.Emergency,
	}

	cuft, err := CubicFeetFor(t, in.MoveSize, in.CustomCubicFeet)
	if err != nil {
		return res, warnings, err
	}
	res.CubicFeet = cuft

	baseCrew, err := BaseCrewSize(t, cuft, in.ForcedCrewSize)
	if err != nil {
		return res, warnings, err
	}
	res.BaseCrewSize = baseCrew

	res.Handicap = AccessibilityModifier(t, cuft, in.Origin, in.Destination)
	warnings = append(warnings, res.Handicap.Warnings...)
	if in.ForcedCrewSize != nil {
		res.CrewAdjustment = CrewAdjustment{BaseCrew: baseCrew, Crew: baseCrew}
	} else {
		res.CrewAdjustment = EscalateCrew(t, cuft, baseCrew, res.Handicap.Modifier)
	}
	res.CrewSize = res.CrewAdjustment.Crew
	if res.CrewAdjustment.Capped {
		warnings = append(warnings, fmt.Sprintf("crew escalation capped at %d movers", t.MaxCrew))
	}

	profile := t.Services[in.ServiceType]
	var boxes *BoxAllocation
	rooms := 0
	whiteGlove := in.ServiceTier == TierWhiteGlove || in.ServiceType == ServiceWhiteGlove
	switch {
	case in.Estimation != nil:
		est, err := EstimateBoxes(t, *in.Estimation)
		if err != nil {
			return res, warnings, err
		}
		boxes = &est.Boxes
		rooms = est.RoomCount
		res.BoxRecommendedCrewSize = est.Recommended
		whiteGlove = whiteGlove || in.Estimation.WhiteGlove
	case in.Boxes != nil:
		b := *in.Boxes
		boxes = &b
		res.BoxRecommendedCrewSize = RecommendedCrewForBoxes(t, b.Total())
	}
	res.Boxes = boxes

	packingHours, unpackingHours := 0.0, 0.0
	if boxes != nil {
		if profile.Packing {
			lt, err := PackingTime(t, *boxes, rooms, res.CrewSize, whiteGlove)
			if err != nil {
				return res, warnings, err
			}
			res.Packing = &lt
			packingHours = lt.Hours
		}
		if profile.Unpacking {
			lt, err := UnpackingTime(t, *boxes, rooms, res.CrewSize, whiteGlove)
			if err != nil {
				return res, warnings, err
			}
			res.Unpacking = &lt
			unpackingHours = lt.Hours
		}
		m := MaterialCost(t, *boxes)
		res.Materials = &m
		res.MaterialCost = m.Total
	} else if profile.Packing || profile.Unpacking {
		warnings = append(warnings, fmt.Sprintf("service type %q bills packing or unpacking but no box inventory was given; those hours are 0", in.ServiceType))
	}

	res.Moving, err = EstimateMovingTime(t, cuft, res.CrewSize, in.ServiceTier, in.ServiceType, res.Handicap.Modifier)
	if err != nil {
		return res, warnings, err
	}
	res.Base, err = EffectiveBaseTime(t, in.ServiceType, res.Moving.AdjustedHours, packingHours, unpackingHours)
	if err != nil {
		return res, warnings, err
	}
	res.LoadHours, res.UnloadHours = LoadUnloadHours(t, in.ServiceType, res.Base.MovingHours)

	res.HourlyRate, err = BillingRate(t, in.ServiceType, res.CrewSize, in.Emergency)
	if err != nil {
		return res, warnings, err
	}

	miles, minutes := in.DistanceMiles, 0.0
	switch {
	case route != nil:
		miles, minutes = route.DistanceInMiles, route.DurationInMinutes
		res.DistanceDegraded = route.Degraded
		warnings = append(warnings, route.Warnings...)
	case in.DriveMinutes != nil:
		minutes = *in.DriveMinutes
	default:
		minutes = EstimatedDriveMinutes(t, miles)
		if miles > 0 {
			res.DistanceDegraded = true
			warnings = append(warnings, fmt.Sprintf("drive time estimated from default speed: %.0f min for %.1f mi", minutes, miles))
		}
	}
	res.Travel, err = TravelCharges(t, miles, minutes, res.HourlyRate, in.Trucks())
	if err != nil {
		return res, warnings, err
	}
	res.MoveDistance = miles
	res.MoveType = res.Travel.MoveType

	res.BilledHours = res.Base.BilledHours + res.Travel.BilledTravelHours
	res.AdditionalTruckCost = AdditionalTruckCharge(t, in.Trucks(), res.BilledHours)

	res.DaySplit, err = SplitDays(t, res.BilledHours, res.MoveType)
	if err != nil {
		return res, warnings, err
	}

	for _, item := range in.SpecialItems {
		res.SpecialItemsCost += item.Fee
	}

	res.Charges, err = BuildCharges(t, ChargeBasis{
		JobID:               in.JobID,
		ServiceType:         in.ServiceType,
		Crew:                res.CrewSize,
		HourlyRate:          res.HourlyRate,
		Base:                res.Base,
		Travel:              res.Travel,
		Materials:           res.Materials,
		AdditionalTruckCost: res.AdditionalTruckCost,
		BilledHours:         res.BilledHours,
		SpecialItems:        in.SpecialItems,
	})
	if err != nil {
		return res, warnings, err
	}

	for _, it := range res.Charges.Items {
		switch it.Type {
		case ChargePacking, ChargeLoad, ChargeUnload, ChargeUnpacking, ChargeMinimumTime:
			res.LaborCost += it.Amount.Value
		}
	}
	res.TotalCost = res.Charges.Total()
	return res, warnings, nil
}

// CalculateQuickPrice returns only the headline numbers.
func CalculateQuickPrice(t *Tables, in PricingInputs, route *distance.Route) Result[QuickPrice] {
	full := CalculatePricing(t, in, route)
	if !full.Success {
		return Result[QuickPrice]{Errors: full.Errors, Warnings: full.Warnings}
	}
	d := full.Data
	return succeed(QuickPrice{
		CrewSize:    d.CrewSize,
		HourlyRate:  Round2(d.HourlyRate),
		BilledHours: d.BilledHours,
		MoveType:    d.MoveType,
		Days:        d.DaySplit.Days,
		TotalCost:   d.TotalCost,
	}, full.Warnings)
}

// GetPricingBreakdown returns the display view of a priced job.
func GetPricingBreakdown(t *Tables, in PricingInputs, route *distance.Route) Result[PricingBreakdown] {
	full := CalculatePricing(t, in, route)
	if !full.Success {
		return Result[PricingBreakdown]{Errors: full.Errors, Warnings: full.Warnings}
	}
	d := full.Data
	b := PricingBreakdown{
		CrewSize:    d.CrewSize,
		HourlyRate:  Round2(d.HourlyRate),
		MoveType:    d.MoveType,
		Modifier:    d.Handicap.Modifier,
		TravelHours: d.Travel.TravelHours,
		BilledHours: d.BilledHours,
		Days:        d.DaySplit.HoursPerDay,
		Total:       d.TotalCost,
		Warnings:    full.Warnings,
	}
	b.Lines = BreakdownLines(d.Charges)
	return succeed(b, full.Warnings)
}

// BreakdownLines flattens charge items to their current values.
func BreakdownLines(data JobChargeData) []BreakdownLine {
	lines := make([]BreakdownLine, 0, len(data.Items))
	for _, it := range data.Items {
		line := BreakdownLine{
			Type:        it.Type,
			Description: it.Description,
			Amount:      Round2(it.Amount.Value),
			Billable:    it.IsBillable.Value,
		}
		if it.Hours != nil {
			line.Hours = it.Hours.Value
		}
		if it.NumberOfCrew != nil {
			line.Crew = it.NumberOfCrew.Value
		}
		if it.HourlyRate != nil {
			line.Rate = Round2(it.HourlyRate.Value)
		}
		lines = append(lines, line)
	}
	return lines
}
