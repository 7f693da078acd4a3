package pricing

import (
	"fmt"
	"sort"
)

// thresholdEpsilon absorbs float noise when (modifier - 1) lands exactly on a
// threshold, e.g. 1.45 - 1.
const thresholdEpsilon = 1e-9

// Handicap is the accessibility modifier for a job.
type Handicap struct {
	Modifier         float64  `json:"modifier"`
	OriginExtra      float64  `json:"originExtra"`
	DestinationExtra float64  `json:"destinationExtra"`
	Applied          bool     `json:"applied"`
	Warnings         []string `json:"warnings,omitempty"`
}

// LocationExtra is the modifier contribution of one end of the move. Walk
// distance counts in whole steps of WalkStepFeet.
func LocationExtra(t *Tables, a Accessibility) float64 {
	extra := float64(a.Stairs) * t.StairFactor
	extra += float64(a.WalkFeet/t.WalkStepFeet) * t.WalkFactor
	if a.Elevator {
		extra += t.ElevatorFactor
	}
	return extra
}

// AccessibilityModifier combines origin and destination. Below the cubic-feet
// threshold the modifier is exactly 1 and any non-zero input is reported as
// ignored.
func AccessibilityModifier(t *Tables, cubicFeet float64, origin, destination Accessibility) Handicap {
	if cubicFeet < t.HandicapMinCubicFeet {
		h := Handicap{Modifier: 1}
		for name, a := range map[string]Accessibility{"origin": origin, "destination": destination} {
			if !a.isZero() {
				h.Warnings = append(h.Warnings, fmt.Sprintf(
					"%s accessibility inputs ignored: job volume %.0f cuft is below %.0f cuft", name, cubicFeet, t.HandicapMinCubicFeet))
			}
		}
		sort.Strings(h.Warnings)
		return h
	}

	h := Handicap{
		OriginExtra:      LocationExtra(t, origin),
		DestinationExtra: LocationExtra(t, destination),
		Applied:          true,
	}
	h.Modifier = 1 + h.OriginExtra + h.DestinationExtra
	return h
}

// CrewAdjustment is the outcome of crew escalation.
type CrewAdjustment struct {
	BaseCrew       int     `json:"baseCrew"`
	AdditionalCrew int     `json:"additionalCrew"`
	Crew           int     `json:"crew"`
	FirstExtra     float64 `json:"firstExtra"`
	SecondExtra    float64 `json:"secondExtra"`
	Capped         bool    `json:"capped"`
}

// EscalateCrew adds movers when the accessibility modifier crosses the band
// thresholds for the job's volume. It never reduces the crew and caps at MaxCrew.
func EscalateCrew(t *Tables, cubicFeet float64, baseCrew int, modifier float64) CrewAdjustment {
	adj := CrewAdjustment{BaseCrew: baseCrew, Crew: baseCrew}
	if cubicFeet < t.HandicapMinCubicFeet {
		return adj
	}

	band, found := escalationBand(t, cubicFeet)
	if !found {
		return adj
	}
	adj.FirstExtra = band.FirstExtra
	adj.SecondExtra = band.SecondExtra

	extra := modifier - 1
	switch {
	case extra+thresholdEpsilon >= band.SecondExtra:
		adj.AdditionalCrew = 2
	case extra+thresholdEpsilon >= band.FirstExtra:
		adj.AdditionalCrew = 1
	}

	crew := baseCrew + adj.AdditionalCrew
	if crew > t.MaxCrew {
		crew = t.MaxCrew
		adj.Capped = true
	}
	if crew < baseCrew {
		crew = baseCrew
	}
	adj.Crew = crew
	adj.AdditionalCrew = crew - baseCrew
	return adj
}

func escalationBand(t *Tables, cubicFeet float64) (EscalationBand, bool) {
	for _, b := range t.EscalationBands {
		if cubicFeet >= b.MinCubicFeet && (b.MaxCubicFeet == 0 || cubicFeet < b.MaxCubicFeet) {
			return b, true
		}
	}
	return EscalationBand{}, false
}
