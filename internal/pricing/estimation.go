package pricing

import "strings"

// EstimateResult is the full box, material and labor estimate for a property.
type EstimateResult struct {
	Inputs              EstimationInputs `json:"inputs"`
	Boxes               BoxEstimate      `json:"boxes"`
	Materials           Materials        `json:"materials"`
	RecommendedCrewSize int              `json:"recommendedCrewSize"`
	Workers             int              `json:"workers"`
	Packing             LaborTime        `json:"packing"`
	Unpacking           LaborTime        `json:"unpacking"`
	TotalLaborHours     float64          `json:"totalLaborHours"`
}

// QuickEstimate is the headline view of an estimate.
type QuickEstimate struct {
	TotalBoxes          int     `json:"totalBoxes"`
	RecommendedCrewSize int     `json:"recommendedCrewSize"`
	PackingHours        float64 `json:"packingHours"`
	UnpackingHours      float64 `json:"unpackingHours"`
	MaterialCost        float64 `json:"materialCost"`
}

// EstimationBreakdownLine is one box type across the estimate.
type EstimationBreakdownLine struct {
	Type             BoxType `json:"type"`
	BaseCount        int     `json:"baseCount"`
	Count            int     `json:"count"`
	UnitPrice        float64 `json:"unitPrice"`
	MaterialCost     float64 `json:"materialCost"`
	PackingMinutes   float64 `json:"packingMinutes"`
	UnpackingMinutes float64 `json:"unpackingMinutes"`
}

// EstimationBreakdown is the per-box-type display view.
type EstimationBreakdown struct {
	Mode           string                    `json:"mode"`
	Rooms          []RoomCount               `json:"rooms,omitempty"`
	Multiplier     float64                   `json:"multiplier"`
	Lines          []EstimationBreakdownLine `json:"lines"`
	MaterialTotal  float64                   `json:"materialTotal"`
	TVRentalTotal  float64                   `json:"tvRentalTotal"`
	PackingHours   float64                   `json:"packingHours"`
	UnpackingHours float64                   `json:"unpackingHours"`
}

// defaultScenario fills in the minimal preview scenario when neither a property
// type nor a fixed estimate type was given. The warning names every field it
// filled; a bedroom count of 0 is indistinguishable from an absent one and is
// reported as defaulted.
func defaultScenario(in EstimationInputs) (EstimationInputs, []string) {
	if in.PropertyType != "" || in.FixedEstimateType != "" {
		return in, nil
	}
	filled := []string{"property type " + string(PropertyApartment)}
	in.PropertyType = PropertyApartment
	if in.Bedrooms == 0 {
		in.Bedrooms = 1
		filled = append(filled, "bedrooms defaulted to 1")
	}
	if in.PackingIntensity == "" {
		in.PackingIntensity = IntensityNormal
		filled = append(filled, "packing intensity "+string(IntensityNormal))
	}
	return in, []string{"no property or fixed estimate type given; using the default scenario: " + strings.Join(filled, ", ")}
}

// CalculateComprehensiveEstimation computes boxes, materials and packing and
// unpacking time for a property.
func CalculateComprehensiveEstimation(t *Tables, in EstimationInputs) Result[EstimateResult] {
	in, warnings := defaultScenario(in)
	if errs := ValidateEstimationInputs(t, in, ""); len(errs) > 0 {
		return invalid[EstimateResult](errs, warnings)
	}

	res, err := estimate(t, in)
	if err != nil {
		return failed[EstimateResult](err, warnings)
	}
	return succeed(res, warnings)
}

func estimate(t *Tables, in EstimationInputs) (EstimateResult, error) {
	boxes, err := EstimateBoxes(t, in)
	if err != nil {
		return EstimateResult{}, err
	}

	workers := boxes.Recommended
	if in.Workers != nil {
		workers = *in.Workers
	}
	packing, err := PackingTime(t, boxes.Boxes, boxes.RoomCount, workers, in.WhiteGlove)
	if err != nil {
		return EstimateResult{}, err
	}
	unpacking, err := UnpackingTime(t, boxes.Boxes, boxes.RoomCount, workers, in.WhiteGlove)
	if err != nil {
		return EstimateResult{}, err
	}

	return EstimateResult{
		Inputs:              in,
		Boxes:               boxes,
		Materials:           MaterialCost(t, boxes.Boxes),
		RecommendedCrewSize: boxes.Recommended,
		Workers:             workers,
		Packing:             packing,
		Unpacking:           unpacking,
		TotalLaborHours:     packing.Hours + unpacking.Hours,
	}, nil
}

// CalculateQuickEstimation returns only the headline numbers.
func CalculateQuickEstimation(t *Tables, in EstimationInputs) Result[QuickEstimate] {
	full := CalculateComprehensiveEstimation(t, in)
	if !full.Success {
		return Result[QuickEstimate]{Errors: full.Errors, Warnings: full.Warnings}
	}
	d := full.Data
	return succeed(QuickEstimate{
		TotalBoxes:          d.Boxes.TotalBoxes,
		RecommendedCrewSize: d.RecommendedCrewSize,
		PackingHours:        d.Packing.Hours,
		UnpackingHours:      d.Unpacking.Hours,
		MaterialCost:        Round2(d.Materials.Total),
	}, full.Warnings)
}

// GetEstimationBreakdown returns the per-box-type view with money rounded for
// display.
func GetEstimationBreakdown(t *Tables, in EstimationInputs) Result[EstimationBreakdown] {
	full := CalculateComprehensiveEstimation(t, in)
	if !full.Success {
		return Result[EstimationBreakdown]{Errors: full.Errors, Warnings: full.Warnings}
	}
	d := full.Data

	b := EstimationBreakdown{
		Mode:           d.Boxes.Mode,
		Rooms:          d.Boxes.Rooms,
		Multiplier:     d.Boxes.Multiplier,
		MaterialTotal:  Round2(d.Materials.Total),
		TVRentalTotal:  Round2(d.Materials.TVRentalTotal),
		PackingHours:   d.Packing.Hours,
		UnpackingHours: d.Unpacking.Hours,
	}
	for i, bt := range BoxTypes {
		b.Lines = append(b.Lines, EstimationBreakdownLine{
			Type:             bt,
			BaseCount:        d.Boxes.BaseBoxes.Count(bt),
			Count:            d.Boxes.Boxes.Count(bt),
			UnitPrice:        d.Materials.Lines[i].UnitPrice,
			MaterialCost:     Round2(d.Materials.Lines[i].Total),
			PackingMinutes:   d.Packing.Lines[i].Minutes,
			UnpackingMinutes: d.Unpacking.Lines[i].Minutes,
		})
	}
	return succeed(b, full.Warnings)
}
