package pricing

import "github.com/Simplici0/movequote/internal/distance"

// EstimationInputs describes the property whose contents are boxed. Exactly one
// of PropertyType and FixedEstimateType is set.
type EstimationInputs struct {
	PropertyType      PropertyType      `json:"propertyType,omitempty" yaml:"propertyType,omitempty"`
	FixedEstimateType FixedEstimateType `json:"fixedEstimateType,omitempty" yaml:"fixedEstimateType,omitempty"`
	Bedrooms          int               `json:"bedrooms" yaml:"bedrooms"`
	PackingIntensity  PackingIntensity  `json:"packingIntensity" yaml:"packingIntensity"`
	WhiteGlove        bool              `json:"whiteGlove,omitempty" yaml:"whiteGlove,omitempty"`
	CustomRooms       map[RoomType]int  `json:"customRooms,omitempty" yaml:"customRooms,omitempty"`

	// Workers overrides the box-count crew recommendation for packing time.
	Workers *int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

func (in EstimationInputs) intensity() PackingIntensity {
	if in.PackingIntensity == "" {
		return IntensityNormal
	}
	return in.PackingIntensity
}

// Accessibility describes one end of the move.
type Accessibility struct {
	Stairs   int  `json:"stairs" yaml:"stairs"`
	WalkFeet int  `json:"walkFeet" yaml:"walkFeet"`
	Elevator bool `json:"elevator" yaml:"elevator"`
}

func (a Accessibility) isZero() bool {
	return a.Stairs == 0 && a.WalkFeet == 0 && !a.Elevator
}

// SpecialItem is a flat-fee item such as a piano or safe.
type SpecialItem struct {
	Name string  `json:"name" yaml:"name"`
	Fee  float64 `json:"fee" yaml:"fee"`
}

// PricingInputs is everything needed to price a job.
type PricingInputs struct {
	JobID            string            `json:"jobId,omitempty" yaml:"jobId,omitempty"`
	MoveSize         string            `json:"moveSize,omitempty" yaml:"moveSize,omitempty"`
	CustomCubicFeet  *float64          `json:"customCubicFeet,omitempty" yaml:"customCubicFeet,omitempty"`
	ServiceTier      ServiceTier       `json:"serviceTier" yaml:"serviceTier"`
	ServiceType      ServiceType       `json:"serviceType" yaml:"serviceType"`
	DistanceMiles    float64           `json:"distanceMiles" yaml:"distanceMiles"`
	DriveMinutes     *float64          `json:"driveMinutes,omitempty" yaml:"driveMinutes,omitempty"`
	Stops            []distance.Stop   `json:"stops,omitempty" yaml:"stops,omitempty"`
	Origin           Accessibility     `json:"origin" yaml:"origin"`
	Destination      Accessibility     `json:"destination" yaml:"destination"`
	ForcedCrewSize   *int              `json:"forcedCrewSize,omitempty" yaml:"forcedCrewSize,omitempty"`
	AdditionalTrucks int               `json:"additionalTrucks,omitempty" yaml:"additionalTrucks,omitempty"`
	Emergency        bool              `json:"emergency,omitempty" yaml:"emergency,omitempty"`
	Estimation       *EstimationInputs `json:"estimation,omitempty" yaml:"estimation,omitempty"`
	Boxes            *BoxAllocation    `json:"boxes,omitempty" yaml:"boxes,omitempty"`
	SpecialItems     []SpecialItem     `json:"specialItems,omitempty" yaml:"specialItems,omitempty"`
}

// Trucks is the total truck count.
func (in PricingInputs) Trucks() int {
	return 1 + in.AdditionalTrucks
}
