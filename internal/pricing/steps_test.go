package pricing

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaultTablesValidate(t *testing.T) {
	if err := DefaultTables().Validate(); err != nil {
		t.Fatalf("default tables invalid: %v", err)
	}

	broken := DefaultTables()
	broken.CrewBands = []Band{{Max: 2000, Movers: 3}, {Max: 1000, Movers: 2}}
	if err := broken.Validate(); err == nil {
		t.Fatalf("descending bands must be rejected")
	}

	broken = DefaultTables()
	delete(broken.Rates, ServicePacking)
	if err := broken.Validate(); err == nil {
		t.Fatalf("missing rate table must be rejected")
	}
}

func TestWithHourlyRatesDoesNotMutate(t *testing.T) {
	base := DefaultTables()
	overlaid := base.WithHourlyRates(map[ServiceType]RateTable{
		ServiceMoving: {ByCrew: map[int]float64{2: 200}, PerAdditionalMover: 50},
	})

	nearlyEqual(t, "base rate", base.Rates[ServiceMoving].ByCrew[2], 169)
	nearlyEqual(t, "overlay rate", overlaid.Rates[ServiceMoving].ByCrew[2], 200)
	nearlyEqual(t, "untouched", overlaid.Rates[ServicePacking].ByCrew[2], 139)
}

func TestCubicFeetFor(t *testing.T) {
	tb := DefaultTables()

	got, err := CubicFeetFor(tb, "2 Bedroom Apartment", nil)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	nearlyEqual(t, "table", got, 800)

	got, err = CubicFeetFor(tb, "2 Bedroom Apartment", floatPtr(950))
	if err != nil {
		t.Fatalf("custom: %v", err)
	}
	nearlyEqual(t, "custom", got, 950)

	for _, bad := range []float64{0, -1} {
		if _, err := CubicFeetFor(tb, "", floatPtr(bad)); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("custom %v: expected ErrInvalidInput, got %v", bad, err)
		}
	}
	if _, err := CubicFeetFor(tb, "Castle", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown move size: expected ErrInvalidInput, got %v", err)
	}
}

func TestBaseCrewSize(t *testing.T) {
	tb := DefaultTables()
	cases := []struct {
		cuft float64
		want int
	}{
		{1009, 2},
		{1010, 3},
		{1709, 3},
		{1710, 4},
		{3200, 5},
		{3201, 6},
		{5500, 7},
		{9000, 7},
	}
	for _, tc := range cases {
		got, err := BaseCrewSize(tb, tc.cuft, nil)
		if err != nil {
			t.Fatalf("cuft %v: %v", tc.cuft, err)
		}
		if got != tc.want {
			t.Fatalf("cuft %v: crew = %d, want %d", tc.cuft, got, tc.want)
		}
	}

	if got, _ := BaseCrewSize(tb, 500, intPtr(5)); got != 5 {
		t.Fatalf("forced crew = %d, want 5", got)
	}
	for _, forced := range []int{1, 8} {
		if _, err := BaseCrewSize(tb, 500, intPtr(forced)); !errors.Is(err, ErrInvalidCrewSize) {
			t.Fatalf("forced %d: expected ErrInvalidCrewSize, got %v", forced, err)
		}
	}
	if _, err := BaseCrewSize(tb, 0, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero cuft: expected ErrInvalidInput, got %v", err)
	}
}

func TestBaseCrewSizeMonotonic(t *testing.T) {
	tb := DefaultTables()
	prev := 0
	for cuft := 1.0; cuft <= 7000; cuft += 7 {
		got, err := BaseCrewSize(tb, cuft, nil)
		if err != nil {
			t.Fatalf("cuft %v: %v", cuft, err)
		}
		if got < prev {
			t.Fatalf("crew decreased at %v: %d < %d", cuft, got, prev)
		}
		prev = got
	}
}

func TestEstimateBoxes_TwoBedroomApartment(t *testing.T) {
	est, err := EstimateBoxes(DefaultTables(), EstimationInputs{
		PropertyType:     PropertyApartment,
		Bedrooms:         2,
		PackingIntensity: IntensityNormal,
	})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.TotalBoxes != 63 {
		t.Fatalf("total boxes = %d, want 63", est.TotalBoxes)
	}
	wantRooms := []RoomCount{{RoomBedroom, 2}, {RoomLivingRoom, 1}, {RoomKitchen, 1}}
	if !reflect.DeepEqual(est.Rooms, wantRooms) {
		t.Fatalf("rooms = %+v, want %+v", est.Rooms, wantRooms)
	}
	if est.RoomCount != 4 || est.Recommended != 3 || est.Mode != ModeDynamic {
		t.Fatalf("unexpected estimate: %+v", est)
	}
}

func TestEstimateBoxes_CustomRooms(t *testing.T) {
	tb := DefaultTables()
	est, err := EstimateBoxes(tb, EstimationInputs{
		PropertyType:     PropertyApartment,
		Bedrooms:         2,
		PackingIntensity: IntensityNormal,
		CustomRooms:      map[RoomType]int{RoomKitchen: 0, RoomOffice: 1},
	})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	// 63 - kitchen 15 + office 11
	if est.TotalBoxes != 59 {
		t.Fatalf("total boxes = %d, want 59", est.TotalBoxes)
	}
	for _, rc := range est.Rooms {
		if rc.Room == RoomKitchen {
			t.Fatalf("kitchen set to 0 must be excluded: %+v", est.Rooms)
		}
	}
}

func TestEstimateBoxes_Fixed(t *testing.T) {
	tb := DefaultTables()
	est, err := EstimateBoxes(tb, EstimationInputs{FixedEstimateType: FixedOfficeSmall, PackingIntensity: IntensityNormal})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.Mode != ModeFixed || est.TotalBoxes != 30 || est.RoomCount != 2 {
		t.Fatalf("unexpected fixed estimate: %+v", est)
	}
}

func TestApplyIntensity_CeilsPerBoxType(t *testing.T) {
	got := ApplyIntensity(BoxAllocation{Small: 3, Medium: 1}, 0.75)
	if got.Small != 3 || got.Medium != 1 {
		t.Fatalf("per-type ceiling not applied: %+v", got)
	}
	// rounding the summed 4 * 0.75 would give 3
	if got.Total() != 4 {
		t.Fatalf("total = %d, want 4", got.Total())
	}
}

func TestApplyIntensity_Monotonic(t *testing.T) {
	tb := DefaultTables()
	for room, base := range tb.Rooms {
		light := ApplyIntensity(base, tb.Intensity[IntensityLight])
		normal := ApplyIntensity(base, tb.Intensity[IntensityNormal])
		heavy := ApplyIntensity(base, tb.Intensity[IntensityHeavy])
		for _, bt := range BoxTypes {
			if light.Count(bt) > normal.Count(bt) || normal.Count(bt) > heavy.Count(bt) {
				t.Fatalf("%s %s: %d/%d/%d not monotonic", room, bt, light.Count(bt), normal.Count(bt), heavy.Count(bt))
			}
		}
	}
}

func TestMaterialCost(t *testing.T) {
	m := MaterialCost(DefaultTables(), BoxAllocation{Small: 10, TVBox: 2})

	nearlyEqual(t, "total", m.Total, 124.9)
	nearlyEqual(t, "rental price", m.TVRentalPrice, 24.975)
	nearlyEqual(t, "rental total", m.TVRentalTotal, 49.95)
	nearlyEqual(t, "total with rental", m.TotalWithRental, 74.95)
	if len(m.Lines) != len(BoxTypes) {
		t.Fatalf("lines = %d, want %d", len(m.Lines), len(BoxTypes))
	}
}

func TestValidateEstimationInputs(t *testing.T) {
	tb := DefaultTables()
	cases := []struct {
		name  string
		in    EstimationInputs
		field string
		code  string
	}{
		{"both types", EstimationInputs{PropertyType: PropertyHouse, FixedEstimateType: FixedOfficeSmall, Bedrooms: 2, PackingIntensity: IntensityNormal}, "propertyType", CodeMutuallyExclusive},
		{"no type", EstimationInputs{PackingIntensity: IntensityNormal}, "propertyType", CodeRequired},
		{"bedrooms out of range", EstimationInputs{PropertyType: PropertyCondo, Bedrooms: 5, PackingIntensity: IntensityNormal}, "bedrooms", CodeOutOfRange},
		{"unknown intensity", EstimationInputs{PropertyType: PropertyHouse, Bedrooms: 2, PackingIntensity: "Extreme"}, "packingIntensity", CodeUnknownValue},
		{"missing intensity", EstimationInputs{PropertyType: PropertyHouse, Bedrooms: 2}, "packingIntensity", CodeRequired},
		{"custom room over cap", EstimationInputs{PropertyType: PropertyHouse, Bedrooms: 2, PackingIntensity: IntensityNormal, CustomRooms: map[RoomType]int{RoomOffice: 11}}, "customRooms.Office", CodeOutOfRange},
		{"negative custom room", EstimationInputs{PropertyType: PropertyHouse, Bedrooms: 2, PackingIntensity: IntensityNormal, CustomRooms: map[RoomType]int{RoomOffice: -1}}, "customRooms.Office", CodeOutOfRange},
		{"unknown custom room", EstimationInputs{PropertyType: PropertyHouse, Bedrooms: 2, PackingIntensity: IntensityNormal, CustomRooms: map[RoomType]int{"Ballroom": 1}}, "customRooms.Ballroom", CodeUnknownValue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateEstimationInputs(tb, tc.in, "")
			for _, e := range errs {
				if e.Field == tc.field && e.Code == tc.code {
					return
				}
			}
			t.Fatalf("expected %s/%s, got %+v", tc.field, tc.code, errs)
		})
	}

	ok := EstimationInputs{PropertyType: PropertyHouse, Bedrooms: 3, PackingIntensity: IntensityHeavy}
	if errs := ValidateEstimationInputs(tb, ok, ""); len(errs) != 0 {
		t.Fatalf("valid inputs rejected: %+v", errs)
	}
}

func TestRoundUpQuarter(t *testing.T) {
	cases := map[float64]float64{
		0:                  0,
		-1:                 0,
		0.1:                0.25,
		1:                  1,
		1.01:               1.25,
		2.25:               2.25,
		2.0000000000000004: 2,
		7.3:                7.5,
	}
	for in, want := range cases {
		nearlyEqual(t, "round", RoundUpQuarter(in), want)
	}
}

func TestPackingAndUnpackingTime(t *testing.T) {
	tb := DefaultTables()
	boxes := BoxAllocation{Small: 20}

	p, err := PackingTime(tb, boxes, 0, 1, false)
	if err != nil {
		t.Fatalf("packing: %v", err)
	}
	nearlyEqual(t, "packing minutes", p.TotalMinutes, 120)
	nearlyEqual(t, "packing hours", p.Hours, 2)

	wg, _ := PackingTime(tb, boxes, 0, 1, true)
	// 144 min = 2.4h
	nearlyEqual(t, "white glove hours", wg.Hours, 2.5)

	u, err := UnpackingTime(tb, BoxAllocation{Small: 10}, 1, 2, false)
	if err != nil {
		t.Fatalf("unpacking: %v", err)
	}
	// (10*4 + 10) / 2 = 25 min
	nearlyEqual(t, "room penalty", u.RoomPenaltyMinutes, 5)
	nearlyEqual(t, "unpacking minutes", u.TotalMinutes, 25)
	nearlyEqual(t, "unpacking hours", u.Hours, 0.5)
	nearlyEqual(t, "line stays unrounded", u.Lines[0].Minutes, 20)

	if _, err := PackingTime(tb, boxes, 0, 0, false); !errors.Is(err, ErrInvalidCrewSize) {
		t.Fatalf("zero workers: expected ErrInvalidCrewSize, got %v", err)
	}
}

func TestEstimateMovingTime(t *testing.T) {
	tb := DefaultTables()

	mt, err := EstimateMovingTime(tb, 800, 2, TierFullService, ServiceMoving, 1.45)
	if err != nil {
		t.Fatalf("moving: %v", err)
	}
	nearlyEqual(t, "base", mt.Hours, 5)
	nearlyEqual(t, "adjusted", mt.AdjustedHours, 7.25)

	small, _ := EstimateMovingTime(tb, 300, 2, TierFullService, ServiceMoving, 1.45)
	nearlyEqual(t, "below threshold", small.AdjustedHours, 2)

	load, _ := EstimateMovingTime(tb, 800, 2, TierFullService, ServiceLoadOnly, 1)
	nearlyEqual(t, "load only", load.Hours, 3)
	unload, _ := EstimateMovingTime(tb, 800, 2, TierFullService, ServiceUnloadOnly, 1)
	nearlyEqual(t, "unload only", unload.Hours, 2)
	packing, _ := EstimateMovingTime(tb, 800, 2, TierFullService, ServicePacking, 1)
	nearlyEqual(t, "packing only", packing.Hours, 0)

	if _, err := EstimateMovingTime(tb, 800, 2, "Hover", ServiceMoving, 1); !errors.Is(err, ErrInvalidServiceTier) {
		t.Fatalf("expected ErrInvalidServiceTier, got %v", err)
	}
	if _, err := EstimateMovingTime(tb, 800, 0, TierFullService, ServiceMoving, 1); !errors.Is(err, ErrInvalidCrewSize) {
		t.Fatalf("expected ErrInvalidCrewSize, got %v", err)
	}
}

func TestEffectiveBaseTime(t *testing.T) {
	tb := DefaultTables()

	bt, _ := EffectiveBaseTime(tb, ServiceMoving, 1.5, 3, 3)
	if !bt.MinimumApplied {
		t.Fatalf("minimum should bind at 1.5h")
	}
	nearlyEqual(t, "billed", bt.BilledHours, 2)
	nearlyEqual(t, "top up", bt.MinimumTopUp, 0.5)

	bt, _ = EffectiveBaseTime(tb, ServiceMoving, 2, 0, 0)
	if bt.MinimumApplied {
		t.Fatalf("minimum must not bind at exactly 2h")
	}

	bt, _ = EffectiveBaseTime(tb, ServiceMovingAndPacking, 3, 1.5, 4)
	nearlyEqual(t, "moving and packing", bt.BilledHours, 4.5)

	bt, _ = EffectiveBaseTime(tb, ServiceFullService, 3, 1.5, 1)
	nearlyEqual(t, "full service", bt.BilledHours, 5.5)

	bt, _ = EffectiveBaseTime(tb, ServiceUnpacking, 3, 1.5, 2.5)
	nearlyEqual(t, "unpacking", bt.BilledHours, 2.5)
}

func TestAccessibilityModifier(t *testing.T) {
	tb := DefaultTables()

	h := AccessibilityModifier(tb, 400, Accessibility{Stairs: 2, WalkFeet: 100, Elevator: true}, Accessibility{})
	nearlyEqual(t, "modifier", h.Modifier, 1.45)
	if !h.Applied || len(h.Warnings) != 0 {
		t.Fatalf("unexpected handicap: %+v", h)
	}

	h = AccessibilityModifier(tb, 400, Accessibility{WalkFeet: 199}, Accessibility{Stairs: 1})
	nearlyEqual(t, "partial walk step", h.Modifier, 1.18)
	nearlyEqual(t, "destination extra", h.DestinationExtra, 0.09)

	h = AccessibilityModifier(tb, 399, Accessibility{Stairs: 3}, Accessibility{Elevator: true})
	nearlyEqual(t, "below threshold", h.Modifier, 1)
	if h.Applied || len(h.Warnings) != 2 {
		t.Fatalf("expected two ignored-input warnings: %+v", h)
	}
}

func TestEscalateCrew(t *testing.T) {
	tb := DefaultTables()
	cases := []struct {
		name     string
		cuft     float64
		base     int
		modifier float64
		want     int
		capped   bool
	}{
		{"below threshold", 350, 2, 2.0, 2, false},
		{"mid band first", 400, 2, 1.45, 3, false},
		{"mid band under", 400, 2, 1.27, 2, false},
		{"large band exact first", 800, 2, 1.45, 3, false},
		{"large band second", 800, 2, 1.90, 4, false},
		{"capped", 4300, 6, 2.0, 7, true},
		{"already max", 6000, 7, 2.0, 7, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adj := EscalateCrew(tb, tc.cuft, tc.base, tc.modifier)
			if adj.Crew != tc.want || adj.Capped != tc.capped {
				t.Fatalf("crew = %d capped=%v, want %d capped=%v", adj.Crew, adj.Capped, tc.want, tc.capped)
			}
			if adj.Crew < tc.base {
				t.Fatalf("escalation reduced crew")
			}
		})
	}
}

func TestHourlyRate(t *testing.T) {
	tb := DefaultTables()

	rate, _ := HourlyRate(tb, ServiceMoving, 3)
	nearlyEqual(t, "exact", rate, 229)

	rate, _ = HourlyRate(tb, ServiceMoving, 7)
	nearlyEqual(t, "extrapolated", rate, 349+2*60)

	rate, _ = HourlyRate(tb, ServiceLaborOnly, 6)
	nearlyEqual(t, "default per-mover", rate, 309+60)

	gap := DefaultTables()
	gap.Rates[ServiceMoving] = RateTable{ByCrew: map[int]float64{2: 100, 4: 200}}
	rate, _ = HourlyRate(gap, ServiceMoving, 3)
	nearlyEqual(t, "between sizes", rate, 200)

	rate, _ = BillingRate(tb, ServiceMoving, 2, true)
	nearlyEqual(t, "emergency", rate, 169*1.25)

	if _, err := HourlyRate(tb, "Teleport", 2); !errors.Is(err, ErrInvalidServiceType) {
		t.Fatalf("expected ErrInvalidServiceType, got %v", err)
	}
}

func TestClassifyMove(t *testing.T) {
	tb := DefaultTables()
	cases := map[float64]MoveType{
		0:     MoveLocal,
		30:    MoveLocal,
		30.01: MoveRegional,
		120:   MoveRegional,
		121:   MoveLongDistance,
	}
	for miles, want := range cases {
		got, err := ClassifyMove(tb, miles)
		if err != nil || got != want {
			t.Fatalf("%v mi: got %s (%v), want %s", miles, got, err, want)
		}
	}
	if _, err := ClassifyMove(tb, -3); !errors.Is(err, ErrNegativeDistance) {
		t.Fatalf("expected ErrNegativeDistance, got %v", err)
	}
}

func TestTravelCharges(t *testing.T) {
	tb := DefaultTables()

	local, _ := TravelCharges(tb, 20, 50, 229, 1)
	if !local.TimeBased {
		t.Fatalf("20 mi must bill time")
	}
	nearlyEqual(t, "display hours", local.TravelHours, 50.0/60)
	nearlyEqual(t, "billed hours", local.BilledTravelHours, 1)
	nearlyEqual(t, "travel cost", local.TravelCost, 229)
	nearlyEqual(t, "no mileage", local.MileageCost, 0)

	far, _ := TravelCharges(tb, 100, 120, 229, 2)
	nearlyEqual(t, "far travel cost", far.TravelCost, 0)
	nearlyEqual(t, "mileage", far.MileageCost, 858)
	nearlyEqual(t, "fuel", far.FuelCost, 400)

	nearlyEqual(t, "trucks", AdditionalTruckCharge(tb, 3, 5), 300)
	nearlyEqual(t, "one truck", AdditionalTruckCharge(tb, 1, 5), 0)
}

func TestSplitDays(t *testing.T) {
	tb := DefaultTables()

	ds, _ := SplitDays(tb, 15, MoveLocal)
	if ds.Days != 2 || !ds.MultiDay {
		t.Fatalf("days = %d, want 2", ds.Days)
	}
	nearlyEqual(t, "day 1", ds.HoursPerDay[0], 7.5)
	nearlyEqual(t, "day 2", ds.HoursPerDay[1], 7.5)

	ds, _ = SplitDays(tb, 9, MoveLocal)
	if ds.Days != 1 || ds.MultiDay {
		t.Fatalf("9h local must fit one day: %+v", ds)
	}

	ds, _ = SplitDays(tb, 30, MoveLongDistance)
	if ds.Days != 3 {
		t.Fatalf("days = %d, want 3", ds.Days)
	}
	nearlyEqual(t, "even split", ds.HoursPerDay[2], 10)
}

func TestRound2(t *testing.T) {
	nearlyEqual(t, "half up", Round2(2.675), 2.68)
	nearlyEqual(t, "plain", Round2(84.5), 84.5)
	nearlyEqual(t, "sum", Sum(0.1, 0.2), 0.3)
}
