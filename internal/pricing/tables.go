package pricing

import (
	"fmt"
	"sort"
)

// RoomType names a room whose contents are packed into a BoxAllocation.
type RoomType string

const (
	RoomBedroom    RoomType = "Bedroom"
	RoomLivingRoom RoomType = "Living Room"
	RoomKitchen    RoomType = "Kitchen"
	RoomDiningRoom RoomType = "Dining Room"
	RoomBathroom   RoomType = "Bathroom"
	RoomOffice     RoomType = "Office"
	RoomGarage     RoomType = "Garage"
)

// PropertyType selects the dynamic (per-room) box estimate.
type PropertyType string

const (
	PropertyApartment PropertyType = "Apartment"
	PropertyCondo     PropertyType = "Condo"
	PropertyTownhouse PropertyType = "Townhouse"
	PropertyHouse     PropertyType = "House"
)

// FixedEstimateType selects a pre-tabulated box estimate.
type FixedEstimateType string

const (
	FixedStudioApartment FixedEstimateType = "Studio Apartment"
	FixedOfficeSmall     FixedEstimateType = "Office (Small)"
	FixedOfficeMedium    FixedEstimateType = "Office (Medium)"
	FixedOfficeLarge     FixedEstimateType = "Office (Large)"
	FixedStorage5x10     FixedEstimateType = "Storage Unit (5x10)"
	FixedStorage10x10    FixedEstimateType = "Storage Unit (10x10)"
	FixedStorage10x20    FixedEstimateType = "Storage Unit (10x20)"
)

// PackingIntensity scales box counts.
type PackingIntensity string

const (
	IntensityLight  PackingIntensity = "Light"
	IntensityNormal PackingIntensity = "Normal"
	IntensityHeavy  PackingIntensity = "Heavy"
)

// ServiceTier determines crew speed in cubic feet per hour per mover.
type ServiceTier string

const (
	TierGrabNGo     ServiceTier = "Grab-n-Go"
	TierFullService ServiceTier = "Full Service"
	TierWhiteGlove  ServiceTier = "White Glove"
	TierLaborOnly   ServiceTier = "Labor Only"
)

// ServiceType is the billing category; it selects the hourly rate table and
// which time components are billed.
type ServiceType string

const (
	ServiceMoving           ServiceType = "Moving"
	ServiceMovingAndPacking ServiceType = "Moving and Packing"
	ServiceFullService      ServiceType = "Full Service"
	ServiceWhiteGlove       ServiceType = "White Glove"
	ServicePacking          ServiceType = "Packing"
	ServiceUnpacking        ServiceType = "Unpacking"
	ServiceLoadOnly         ServiceType = "Load Only"
	ServiceUnloadOnly       ServiceType = "Unload Only"
	ServiceCommercial       ServiceType = "Commercial"
	ServiceLaborOnly        ServiceType = "Labor Only"
)

// MoveType classifies a job by one-way distance.
type MoveType string

const (
	MoveLocal        MoveType = "LOCAL"
	MoveRegional     MoveType = "REGIONAL"
	MoveLongDistance MoveType = "LONG_DISTANCE"
)

// Direction says how moving hours are split into load and unload lines.
type Direction string

const (
	DirectionBoth   Direction = "both"
	DirectionLoad   Direction = "load"
	DirectionUnload Direction = "unload"
)

// Band maps an inclusive upper bound to a crew size.
type Band struct {
	Max    float64
	Movers int
}

// PropertyConfig describes the rooms a property type always has and its
// allowed bedroom range.
type PropertyConfig struct {
	BaseRooms   []RoomType
	MinBedrooms int
	MaxBedrooms int
}

// FixedEstimate is a tabulated allocation with the room count used for the
// room setup penalty.
type FixedEstimate struct {
	Boxes BoxAllocation
	Rooms int
}

// RateTable holds hourly rates by crew size for one service type.
type RateTable struct {
	ByCrew             map[int]float64
	PerAdditionalMover float64
}

// EscalationBand holds the crew escalation thresholds on (modifier - 1) for a
// cubic-feet range [MinCubicFeet, MaxCubicFeet). MaxCubicFeet 0 means unbounded.
type EscalationBand struct {
	MinCubicFeet float64
	MaxCubicFeet float64
	FirstExtra   float64
	SecondExtra  float64
}

// ServiceProfile lists the time components billed for a service type.
type ServiceProfile struct {
	Moving       bool
	Packing      bool
	Unpacking    bool
	MovingFactor float64
	Direction    Direction
}

// Tables is the configuration bundle every calculation step reads from.
type Tables struct {
	MoveSizes      map[string]float64
	CrewBands      []Band
	BoxCrewBands   []Band
	Rooms          map[RoomType]BoxAllocation
	Properties     map[PropertyType]PropertyConfig
	FixedEstimates map[FixedEstimateType]FixedEstimate
	Intensity      map[PackingIntensity]float64
	MaxCustomRooms int

	MaterialPrices BoxRates
	TVRentalFactor float64

	PackingMinutes       BoxRates
	UnpackingMinutes     BoxRates
	PackingRoomPenalty   float64
	UnpackingRoomPenalty float64
	WhiteGloveModifier   float64

	TierSpeeds   map[ServiceTier]float64
	Services     map[ServiceType]ServiceProfile
	MinimumHours float64

	HandicapMinCubicFeet float64
	StairFactor          float64
	WalkFactor           float64
	WalkStepFeet         int
	ElevatorFactor       float64
	EscalationBands      []EscalationBand
	MinCrew              int
	MaxCrew              int

	Rates                     map[ServiceType]RateTable
	DefaultPerAdditionalMover float64
	EmergencyRateMultiplier   float64

	LocalMaxMiles         float64
	RegionalMaxMiles      float64
	MileageRate           float64
	FuelRate              float64
	AdditionalTruckHourly float64
	DefaultTravelSpeedMPH float64

	LoadShare   float64
	DayCeilings map[MoveType]float64
}

// DefaultTables returns the built-in configuration.
func DefaultTables() *Tables {
	return &Tables{
		MoveSizes: map[string]float64{
			"Room or Less":        150,
			"Studio Apartment":    300,
			"1 Bedroom Apartment": 450,
			"2 Bedroom Apartment": 800,
			"3 Bedroom Apartment": 1100,
			"1 Bedroom House":     700,
			"2 Bedroom House":     1000,
			"3 Bedroom House":     1500,
			"4 Bedroom House":     2200,
			"5 Bedroom House":     3000,
			"Office (Small)":      600,
			"Office (Medium)":     1200,
			"Office (Large)":      2500,
		},
		CrewBands: []Band{
			{Max: 1009, Movers: 2},
			{Max: 1709, Movers: 3},
			{Max: 2409, Movers: 4},
			{Max: 3200, Movers: 5},
			{Max: 4200, Movers: 6},
			{Max: 5500, Movers: 7},
		},
		BoxCrewBands: []Band{
			{Max: 40, Movers: 2},
			{Max: 90, Movers: 3},
			{Max: 150, Movers: 4},
			{Max: 220, Movers: 5},
			{Max: 300, Movers: 6},
			{Max: 400, Movers: 7},
		},
		Rooms: map[RoomType]BoxAllocation{
			RoomBedroom:    {Small: 4, Medium: 6, Large: 3, Wardrobe: 2, MattressBag: 1, TVBox: 1},
			RoomLivingRoom: {Small: 4, Medium: 5, Large: 4, TVBox: 1},
			RoomKitchen:    {Small: 6, Medium: 4, Large: 1, DishPack: 4},
			RoomDiningRoom: {Small: 2, Medium: 3, Large: 1, DishPack: 2},
			RoomBathroom:   {Small: 3, Medium: 1},
			RoomOffice:     {Small: 5, Medium: 4, Large: 2},
			RoomGarage:     {Small: 2, Medium: 6, Large: 6},
		},
		Properties: map[PropertyType]PropertyConfig{
			PropertyApartment: {BaseRooms: []RoomType{RoomLivingRoom, RoomKitchen}, MinBedrooms: 0, MaxBedrooms: 4},
			PropertyCondo:     {BaseRooms: []RoomType{RoomLivingRoom, RoomKitchen, RoomBathroom}, MinBedrooms: 1, MaxBedrooms: 4},
			PropertyTownhouse: {BaseRooms: []RoomType{RoomLivingRoom, RoomKitchen, RoomDiningRoom, RoomBathroom}, MinBedrooms: 1, MaxBedrooms: 5},
			PropertyHouse:     {BaseRooms: []RoomType{RoomLivingRoom, RoomKitchen, RoomDiningRoom, RoomBathroom, RoomGarage}, MinBedrooms: 1, MaxBedrooms: 7},
		},
		FixedEstimates: map[FixedEstimateType]FixedEstimate{
			FixedStudioApartment: {Boxes: BoxAllocation{Small: 10, Medium: 12, Large: 6, Wardrobe: 2, DishPack: 3, MattressBag: 1, TVBox: 1}, Rooms: 2},
			FixedOfficeSmall:     {Boxes: BoxAllocation{Small: 10, Medium: 15, Large: 5}, Rooms: 2},
			FixedOfficeMedium:    {Boxes: BoxAllocation{Small: 25, Medium: 35, Large: 12, TVBox: 2}, Rooms: 4},
			FixedOfficeLarge:     {Boxes: BoxAllocation{Small: 50, Medium: 70, Large: 25, TVBox: 4}, Rooms: 8},
			FixedStorage5x10:     {Boxes: BoxAllocation{Small: 5, Medium: 10, Large: 5}, Rooms: 0},
			FixedStorage10x10:    {Boxes: BoxAllocation{Small: 10, Medium: 20, Large: 10, Wardrobe: 1, MattressBag: 1}, Rooms: 0},
			FixedStorage10x20:    {Boxes: BoxAllocation{Small: 20, Medium: 35, Large: 20, Wardrobe: 2, DishPack: 2, MattressBag: 2, TVBox: 1}, Rooms: 0},
		},
		Intensity: map[PackingIntensity]float64{
			IntensityLight:  0.75,
			IntensityNormal: 1.0,
			IntensityHeavy:  1.5,
		},
		MaxCustomRooms: 10,

		MaterialPrices: BoxRates{Small: 2.50, Medium: 3.50, Large: 4.50, Wardrobe: 19.95, DishPack: 7.95, MattressBag: 9.95, TVBox: 49.95},
		TVRentalFactor: 0.5,

		PackingMinutes:       BoxRates{Small: 6, Medium: 8, Large: 10, Wardrobe: 12, DishPack: 20, MattressBag: 5, TVBox: 15},
		UnpackingMinutes:     BoxRates{Small: 4, Medium: 5, Large: 6, Wardrobe: 6, DishPack: 12, MattressBag: 3, TVBox: 8},
		PackingRoomPenalty:   15,
		UnpackingRoomPenalty: 10,
		WhiteGloveModifier:   0.20,

		TierSpeeds: map[ServiceTier]float64{
			TierGrabNGo:     95,
			TierFullService: 80,
			TierWhiteGlove:  65,
			TierLaborOnly:   90,
		},
		Services: map[ServiceType]ServiceProfile{
			ServiceMoving:           {Moving: true, MovingFactor: 1, Direction: DirectionBoth},
			ServiceMovingAndPacking: {Moving: true, Packing: true, MovingFactor: 1, Direction: DirectionBoth},
			ServiceFullService:      {Moving: true, Packing: true, Unpacking: true, MovingFactor: 1, Direction: DirectionBoth},
			ServiceWhiteGlove:       {Moving: true, Packing: true, Unpacking: true, MovingFactor: 1, Direction: DirectionBoth},
			ServicePacking:          {Packing: true},
			ServiceUnpacking:        {Unpacking: true},
			ServiceLoadOnly:         {Moving: true, MovingFactor: 0.6, Direction: DirectionLoad},
			ServiceUnloadOnly:       {Moving: true, MovingFactor: 0.4, Direction: DirectionUnload},
			ServiceCommercial:       {Moving: true, MovingFactor: 1, Direction: DirectionBoth},
			ServiceLaborOnly:        {Moving: true, MovingFactor: 1, Direction: DirectionBoth},
		},
		MinimumHours: 2,

		HandicapMinCubicFeet: 400,
		StairFactor:          0.09,
		WalkFactor:           0.09,
		WalkStepFeet:         100,
		ElevatorFactor:       0.18,
		EscalationBands: []EscalationBand{
			{MinCubicFeet: 0, MaxCubicFeet: 300, FirstExtra: 0.27, SecondExtra: 0.54},
			{MinCubicFeet: 300, MaxCubicFeet: 600, FirstExtra: 0.36, SecondExtra: 0.72},
			{MinCubicFeet: 600, MaxCubicFeet: 0, FirstExtra: 0.45, SecondExtra: 0.90},
		},
		MinCrew: 2,
		MaxCrew: 7,

		Rates: map[ServiceType]RateTable{
			ServiceMoving:           {ByCrew: map[int]float64{2: 169, 3: 229, 4: 289, 5: 349}, PerAdditionalMover: 60},
			ServiceMovingAndPacking: {ByCrew: map[int]float64{2: 179, 3: 244, 4: 309, 5: 374}, PerAdditionalMover: 65},
			ServiceFullService:      {ByCrew: map[int]float64{2: 189, 3: 259, 4: 329, 5: 399}, PerAdditionalMover: 70},
			ServiceWhiteGlove:       {ByCrew: map[int]float64{2: 219, 3: 299, 4: 379, 5: 459}, PerAdditionalMover: 80},
			ServicePacking:          {ByCrew: map[int]float64{2: 139, 3: 199, 4: 259}, PerAdditionalMover: 60},
			ServiceUnpacking:        {ByCrew: map[int]float64{2: 129, 3: 189, 4: 249}, PerAdditionalMover: 60},
			ServiceLoadOnly:         {ByCrew: map[int]float64{2: 149, 3: 209, 4: 269}, PerAdditionalMover: 60},
			ServiceUnloadOnly:       {ByCrew: map[int]float64{2: 149, 3: 209, 4: 269}, PerAdditionalMover: 60},
			ServiceCommercial:       {ByCrew: map[int]float64{2: 199, 3: 279, 4: 359, 5: 439}, PerAdditionalMover: 80},
			ServiceLaborOnly:        {ByCrew: map[int]float64{2: 129, 3: 189, 4: 249, 5: 309}},
		},
		DefaultPerAdditionalMover: 60,
		EmergencyRateMultiplier:   1.25,

		LocalMaxMiles:         30,
		RegionalMaxMiles:      120,
		MileageRate:           4.29,
		FuelRate:              2.00,
		AdditionalTruckHourly: 30,
		DefaultTravelSpeedMPH: 40,

		LoadShare: 0.6,
		DayCeilings: map[MoveType]float64{
			MoveLocal:        9,
			MoveRegional:     14,
			MoveLongDistance: 14,
		},
	}
}

// Validate checks the bundle for missing keys and unordered bands.
func (t *Tables) Validate() error {
	if err := validateBands("crew", t.CrewBands); err != nil {
		return err
	}
	if err := validateBands("box crew", t.BoxCrewBands); err != nil {
		return err
	}

	for name, props := range t.Properties {
		if props.MinBedrooms < 0 || props.MaxBedrooms < props.MinBedrooms {
			return fmt.Errorf("property %q: invalid bedroom range [%d,%d]", name, props.MinBedrooms, props.MaxBedrooms)
		}
		for _, room := range props.BaseRooms {
			if _, ok := t.Rooms[room]; !ok {
				return fmt.Errorf("property %q: unknown base room %q", name, room)
			}
		}
	}
	if _, ok := t.Rooms[RoomBedroom]; !ok {
		return fmt.Errorf("room table is missing %q", RoomBedroom)
	}

	for _, level := range []PackingIntensity{IntensityLight, IntensityNormal, IntensityHeavy} {
		if m, ok := t.Intensity[level]; !ok || m <= 0 {
			return fmt.Errorf("intensity %q: missing or non-positive multiplier", level)
		}
	}

	for st, speed := range t.TierSpeeds {
		if speed <= 0 {
			return fmt.Errorf("service tier %q: speed must be > 0", st)
		}
	}

	for st, profile := range t.Services {
		if profile.Moving && profile.MovingFactor <= 0 {
			return fmt.Errorf("service type %q: moving factor must be > 0", st)
		}
		rates, ok := t.Rates[st]
		if !ok {
			return fmt.Errorf("service type %q: no rate table", st)
		}
		if len(rates.ByCrew) == 0 {
			return fmt.Errorf("service type %q: empty rate table", st)
		}
	}

	for i, band := range t.EscalationBands {
		if band.SecondExtra < band.FirstExtra {
			return fmt.Errorf("escalation band %d: second threshold below first", i)
		}
		if i > 0 && band.MinCubicFeet != t.EscalationBands[i-1].MaxCubicFeet {
			return fmt.Errorf("escalation band %d: not contiguous with previous band", i)
		}
	}
	if t.MinCrew <= 0 || t.MaxCrew < t.MinCrew {
		return fmt.Errorf("invalid crew bounds [%d,%d]", t.MinCrew, t.MaxCrew)
	}
	if t.WalkStepFeet <= 0 {
		return fmt.Errorf("walk step must be > 0")
	}
	if t.LocalMaxMiles <= 0 || t.RegionalMaxMiles < t.LocalMaxMiles {
		return fmt.Errorf("invalid move type thresholds %v/%v", t.LocalMaxMiles, t.RegionalMaxMiles)
	}
	for _, mt := range []MoveType{MoveLocal, MoveRegional, MoveLongDistance} {
		if c, ok := t.DayCeilings[mt]; !ok || c <= 0 {
			return fmt.Errorf("move type %q: missing day ceiling", mt)
		}
	}
	if t.LoadShare <= 0 || t.LoadShare >= 1 {
		return fmt.Errorf("load share must be in (0,1), got %v", t.LoadShare)
	}

	return nil
}

// WithHourlyRates returns a copy of t whose rate tables are replaced per
// service type by the given overlay. Service types missing from the overlay keep
// their built-in table.
func (t *Tables) WithHourlyRates(overlay map[ServiceType]RateTable) *Tables {
	clone := *t
	clone.Rates = make(map[ServiceType]RateTable, len(t.Rates))
	for st, table := range t.Rates {
		clone.Rates[st] = table
	}
	for st, table := range overlay {
		if len(table.ByCrew) == 0 {
			continue
		}
		clone.Rates[st] = table
	}
	return &clone
}

// ServiceTypes lists configured service types in a stable order.
func (t *Tables) ServiceTypes() []ServiceType {
	out := make([]ServiceType, 0, len(t.Rates))
	for st := range t.Rates {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func validateBands(name string, bands []Band) error {
	if len(bands) == 0 {
		return fmt.Errorf("%s bands: empty", name)
	}
	for i, b := range bands {
		if b.Movers <= 0 {
			return fmt.Errorf("%s band %d: movers must be > 0", name, i)
		}
		if i > 0 && b.Max <= bands[i-1].Max {
			return fmt.Errorf("%s band %d: bands must be strictly ascending", name, i)
		}
	}
	return nil
}
