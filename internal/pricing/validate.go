package pricing

import (
	"fmt"
	"sort"
)

// ValidateEstimationInputs checks estimation inputs before any calculation runs.
// Field names are prefixed with prefix (e.g. "estimation.").
func ValidateEstimationInputs(t *Tables, in EstimationInputs, prefix string) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{Field: prefix + field, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	switch {
	case in.PropertyType != "" && in.FixedEstimateType != "":
		add("propertyType", CodeMutuallyExclusive, "property type and fixed estimate type cannot both be set")
	case in.PropertyType == "" && in.FixedEstimateType == "":
		add("propertyType", CodeRequired, "property type or fixed estimate type is required")
	case in.PropertyType != "":
		props, found := t.Properties[in.PropertyType]
		if !found {
			add("propertyType", CodeUnknownValue, "unknown property type %q", in.PropertyType)
			break
		}
		if in.Bedrooms < props.MinBedrooms || in.Bedrooms > props.MaxBedrooms {
			add("bedrooms", CodeOutOfRange, "bedrooms for %s must be between %d and %d", in.PropertyType, props.MinBedrooms, props.MaxBedrooms)
		}
	default:
		if _, found := t.FixedEstimates[in.FixedEstimateType]; !found {
			add("fixedEstimateType", CodeUnknownValue, "unknown fixed estimate type %q", in.FixedEstimateType)
		}
		if len(in.CustomRooms) > 0 {
			add("customRooms", CodeInvalidValue, "custom rooms only apply to property types")
		}
	}

	if in.PackingIntensity == "" {
		add("packingIntensity", CodeRequired, "packing intensity is required")
	} else if _, found := t.Intensity[in.PackingIntensity]; !found {
		add("packingIntensity", CodeUnknownValue, "unknown packing intensity %q", in.PackingIntensity)
	}

	rooms := make([]RoomType, 0, len(in.CustomRooms))
	for room := range in.CustomRooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i] < rooms[j] })
	for _, room := range rooms {
		n := in.CustomRooms[room]
		field := "customRooms." + string(room)
		if _, found := t.Rooms[room]; !found {
			add(field, CodeUnknownValue, "unknown room type %q", room)
			continue
		}
		if n < 0 || n > t.MaxCustomRooms {
			add(field, CodeOutOfRange, "room count must be between 0 and %d", t.MaxCustomRooms)
		}
	}

	if in.Workers != nil && (*in.Workers < t.MinCrew || *in.Workers > t.MaxCrew) {
		add("workers", CodeOutOfRange, "workers must be between %d and %d", t.MinCrew, t.MaxCrew)
	}

	return errs
}

// ValidatePricingInputs checks pricing inputs before any calculation runs.
// Numeric problems the calculation steps own (custom cubic feet, forced crew,
// distance) are left to them.
func ValidatePricingInputs(t *Tables, in PricingInputs) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if in.CustomCubicFeet == nil {
		if in.MoveSize == "" {
			add("moveSize", CodeRequired, "move size or custom cubic feet is required")
		} else if _, found := t.MoveSizes[in.MoveSize]; !found {
			add("moveSize", CodeUnknownValue, "unknown move size %q", in.MoveSize)
		}
	}

	if in.ServiceTier == "" {
		add("serviceTier", CodeRequired, "service tier is required")
	} else if _, found := t.TierSpeeds[in.ServiceTier]; !found {
		add("serviceTier", CodeUnknownValue, "unknown service tier %q", in.ServiceTier)
	}

	if in.ServiceType == "" {
		add("serviceType", CodeRequired, "service type is required")
	} else if _, found := t.Services[in.ServiceType]; !found {
		add("serviceType", CodeUnknownValue, "unknown service type %q", in.ServiceType)
	}

	for name, a := range map[string]Accessibility{"origin": in.Origin, "destination": in.Destination} {
		if a.Stairs < 0 {
			add(name+".stairs", CodeOutOfRange, "stairs must be >= 0")
		}
		if a.WalkFeet < 0 {
			add(name+".walkFeet", CodeOutOfRange, "walk distance must be >= 0")
		}
	}

	if in.AdditionalTrucks < 0 {
		add("additionalTrucks", CodeOutOfRange, "additional trucks must be >= 0")
	}
	if len(in.Stops) == 1 {
		add("stops", CodeOutOfRange, "a route needs at least two stops")
	}
	if in.DriveMinutes != nil && *in.DriveMinutes < 0 {
		add("driveMinutes", CodeOutOfRange, "drive minutes must be >= 0")
	}
	for i, item := range in.SpecialItems {
		if item.Fee < 0 {
			add(fmt.Sprintf("specialItems[%d].fee", i), CodeInvalidValue, "fee must be >= 0")
		}
	}
	if in.Boxes != nil {
		for _, bt := range BoxTypes {
			if in.Boxes.Count(bt) < 0 {
				add("boxes."+string(bt), CodeOutOfRange, "box count must be >= 0")
			}
		}
	}
	if in.Estimation != nil {
		if in.Boxes != nil {
			add("boxes", CodeMutuallyExclusive, "boxes and estimation cannot both be set")
		}
		errs = append(errs, ValidateEstimationInputs(t, *in.Estimation, "estimation.")...)
	}

	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
	return errs
}
