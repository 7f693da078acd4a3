package pricing

import "math"

// quarterEpsilon keeps float noise such as 2.0000000000000004 from being billed
// as an extra quarter hour.
const quarterEpsilon = 1e-9

// RoundUpQuarter rounds hours up to the next quarter hour.
func RoundUpQuarter(hours float64) float64 {
	if hours <= 0 {
		return 0
	}
	return math.Ceil(hours*4-quarterEpsilon) / 4
}

// BoxMinutes is the unrounded labor for one box type.
type BoxMinutes struct {
	Type    BoxType `json:"type"`
	Count   int     `json:"count"`
	Minutes float64 `json:"minutes"`
}

// LaborTime is packing or unpacking time for a crew.
type LaborTime struct {
	Workers            int          `json:"workers"`
	Lines              []BoxMinutes `json:"lines"`
	RoomPenaltyMinutes float64      `json:"roomPenaltyMinutes"`
	WhiteGlove         bool         `json:"whiteGlove"`
	TotalMinutes       float64      `json:"totalMinutes"`
	Hours              float64      `json:"hours"`
}

// PackingTime computes packing labor. Per-box lines stay unrounded; Hours is
// rounded up to the quarter hour.
func PackingTime(t *Tables, boxes BoxAllocation, rooms, workers int, whiteGlove bool) (LaborTime, error) {
	lt, err := laborTime(t.PackingMinutes, t.PackingRoomPenalty, boxes, rooms, workers)
	if err != nil {
		return LaborTime{}, err
	}
	if whiteGlove {
		lt.WhiteGlove = true
		lt.TotalMinutes *= 1 + t.WhiteGloveModifier
	}
	lt.Hours = RoundUpQuarter(lt.TotalMinutes / 60)
	return lt, nil
}

// UnpackingTime computes unpacking labor with its own rate and penalty tables.
func UnpackingTime(t *Tables, boxes BoxAllocation, rooms, workers int, whiteGlove bool) (LaborTime, error) {
	lt, err := laborTime(t.UnpackingMinutes, t.UnpackingRoomPenalty, boxes, rooms, workers)
	if err != nil {
		return LaborTime{}, err
	}
	if whiteGlove {
		lt.WhiteGlove = true
		lt.TotalMinutes *= 1 + t.WhiteGloveModifier
	}
	lt.Hours = RoundUpQuarter(lt.TotalMinutes / 60)
	return lt, nil
}

func laborTime(rates BoxRates, roomPenalty float64, boxes BoxAllocation, rooms, workers int) (LaborTime, error) {
	if workers <= 0 {
		return LaborTime{}, calcErrorf(ErrInvalidCrewSize, "worker count must be > 0, got %d", workers)
	}
	lt := LaborTime{Workers: workers}
	w := float64(workers)
	for _, bt := range BoxTypes {
		n := boxes.Count(bt)
		minutes := float64(n) * rates.Rate(bt) / w
		lt.Lines = append(lt.Lines, BoxMinutes{Type: bt, Count: n, Minutes: minutes})
		lt.TotalMinutes += minutes
	}
	lt.RoomPenaltyMinutes = float64(rooms) * roomPenalty / w
	lt.TotalMinutes += lt.RoomPenaltyMinutes
	return lt, nil
}

// MovingTime is the truck-side labor estimate.
type MovingTime struct {
	Speed         float64 `json:"speed"`
	Factor        float64 `json:"factor"`
	RawHours      float64 `json:"rawHours"`
	Hours         float64 `json:"hours"`
	Modifier      float64 `json:"modifier"`
	AdjustedHours float64 `json:"adjustedHours"`
}

// BaseMovingHours is cubicFeet / (crew * tier speed) scaled by the service
// type's moving factor. Packing-only and unpacking-only services return 0.
func BaseMovingHours(t *Tables, cubicFeet float64, crew int, tier ServiceTier, svc ServiceType) (float64, error) {
	profile, found := t.Services[svc]
	if !found {
		return 0, calcErrorf(ErrInvalidServiceType, "unknown service type %q", svc)
	}
	speed, found := t.TierSpeeds[tier]
	if !found {
		return 0, calcErrorf(ErrInvalidServiceTier, "unknown service tier %q", tier)
	}
	if !profile.Moving {
		return 0, nil
	}
	if crew <= 0 {
		return 0, calcErrorf(ErrInvalidCrewSize, "crew size must be > 0, got %d", crew)
	}
	if cubicFeet <= 0 {
		return 0, calcErrorf(ErrInvalidInput, "cubic feet must be > 0, got %v", cubicFeet)
	}
	return cubicFeet / (float64(crew) * speed) * profile.MovingFactor, nil
}

// EstimateMovingTime rounds the base hours, then applies the accessibility
// modifier when the job is large enough and re-rounds.
func EstimateMovingTime(t *Tables, cubicFeet float64, crew int, tier ServiceTier, svc ServiceType, modifier float64) (MovingTime, error) {
	raw, err := BaseMovingHours(t, cubicFeet, crew, tier, svc)
	if err != nil {
		return MovingTime{}, err
	}
	mt := MovingTime{
		Speed:    t.TierSpeeds[tier],
		Factor:   t.Services[svc].MovingFactor,
		RawHours: raw,
		Hours:    RoundUpQuarter(raw),
		Modifier: 1,
	}
	mt.AdjustedHours = mt.Hours
	if cubicFeet >= t.HandicapMinCubicFeet && modifier > 1 {
		mt.Modifier = modifier
		mt.AdjustedHours = RoundUpQuarter(mt.Hours * modifier)
	}
	return mt, nil
}

// BaseTime is the billed labor time for a service type.
type BaseTime struct {
	MovingHours    float64 `json:"movingHours"`
	PackingHours   float64 `json:"packingHours"`
	UnpackingHours float64 `json:"unpackingHours"`
	ComputedHours  float64 `json:"computedHours"`
	BilledHours    float64 `json:"billedHours"`
	MinimumApplied bool    `json:"minimumApplied"`
	MinimumTopUp   float64 `json:"minimumTopUp"`
}

// EffectiveBaseTime sums the components the service type bills and floors the
// total up to the minimum. MinimumApplied is set only when the minimum binds.
func EffectiveBaseTime(t *Tables, svc ServiceType, moving, packing, unpacking float64) (BaseTime, error) {
	profile, found := t.Services[svc]
	if !found {
		return BaseTime{}, calcErrorf(ErrInvalidServiceType, "unknown service type %q", svc)
	}

	bt := BaseTime{}
	if profile.Moving {
		bt.MovingHours = moving
	}
	if profile.Packing {
		bt.PackingHours = packing
	}
	if profile.Unpacking {
		bt.UnpackingHours = unpacking
	}
	bt.ComputedHours = bt.MovingHours + bt.PackingHours + bt.UnpackingHours
	bt.BilledHours = bt.ComputedHours
	if bt.ComputedHours < t.MinimumHours {
		bt.MinimumApplied = true
		bt.MinimumTopUp = t.MinimumHours - bt.ComputedHours
		bt.BilledHours = t.MinimumHours
	}
	return bt, nil
}
