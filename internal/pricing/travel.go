package pricing

import "math"

// ClassifyMove buckets a one-way distance.
func ClassifyMove(t *Tables, miles float64) (MoveType, error) {
	if miles < 0 || math.IsNaN(miles) {
		return "", calcErrorf(ErrNegativeDistance, "distance must be >= 0, got %v", miles)
	}
	switch {
	case miles <= t.LocalMaxMiles:
		return MoveLocal, nil
	case miles <= t.RegionalMaxMiles:
		return MoveRegional, nil
	default:
		return MoveLongDistance, nil
	}
}

// Travel is the travel portion of a quote. TravelHours is for display and
// scheduling and is never rounded; BilledTravelHours is what the crew is paid
// for on local jobs.
type Travel struct {
	Miles             float64  `json:"miles"`
	DurationMinutes   float64  `json:"durationMinutes"`
	MoveType          MoveType `json:"moveType"`
	Trucks            int      `json:"trucks"`
	TimeBased         bool     `json:"timeBased"`
	TravelHours       float64  `json:"travelHours"`
	BilledTravelHours float64  `json:"billedTravelHours"`
	TravelCost        float64  `json:"travelCost"`
	MileageCost       float64  `json:"mileageCost"`
	FuelCost          float64  `json:"fuelCost"`
}

// TravelCharges applies the dual billing mode: up to the local threshold travel
// time is billed at the hourly rate; beyond it, travel time is free and mileage
// and fuel are charged per truck.
func TravelCharges(t *Tables, miles, durationMinutes, hourlyRate float64, trucks int) (Travel, error) {
	moveType, err := ClassifyMove(t, miles)
	if err != nil {
		return Travel{}, err
	}
	if durationMinutes < 0 {
		return Travel{}, calcErrorf(ErrInvalidInput, "drive duration must be >= 0, got %v", durationMinutes)
	}
	if trucks < 1 {
		trucks = 1
	}

	tr := Travel{
		Miles:           miles,
		DurationMinutes: durationMinutes,
		MoveType:        moveType,
		Trucks:          trucks,
		TravelHours:     durationMinutes / 60,
	}
	if miles <= t.LocalMaxMiles {
		tr.TimeBased = true
		tr.BilledTravelHours = RoundUpQuarter(tr.TravelHours)
		tr.TravelCost = tr.BilledTravelHours * hourlyRate
		return tr, nil
	}

	tr.MileageCost = miles * t.MileageRate * float64(trucks)
	tr.FuelCost = miles * t.FuelRate * float64(trucks)
	return tr, nil
}

// AdditionalTruckCharge bills every truck beyond the first per billed hour.
func AdditionalTruckCharge(t *Tables, trucks int, billedHours float64) float64 {
	extra := trucks - 1
	if extra <= 0 {
		return 0
	}
	return float64(extra) * t.AdditionalTruckHourly * billedHours
}

// EstimatedDriveMinutes derives a duration when only a distance is known.
func EstimatedDriveMinutes(t *Tables, miles float64) float64 {
	if miles <= 0 || t.DefaultTravelSpeedMPH <= 0 {
		return 0
	}
	return miles / t.DefaultTravelSpeedMPH * 60
}
