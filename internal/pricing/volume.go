package pricing

import "math"

// CubicFeetFor resolves the job volume. A custom value wins over the move size
// and must be positive.
func CubicFeetFor(t *Tables, moveSize string, custom *float64) (float64, error) {
	if custom != nil {
		if *custom <= 0 || math.IsNaN(*custom) || math.IsInf(*custom, 0) {
			return 0, calcErrorf(ErrInvalidInput, "custom cubic feet must be > 0, got %v", *custom)
		}
		return *custom, nil
	}
	cuft, found := t.MoveSizes[moveSize]
	if !found {
		return 0, calcErrorf(ErrInvalidInput, "unknown move size %q", moveSize)
	}
	return cuft, nil
}

// BaseCrewSize picks the crew for a volume from the ascending cubic-feet bands,
// or validates and returns a forced crew size.
func BaseCrewSize(t *Tables, cubicFeet float64, forced *int) (int, error) {
	if cubicFeet <= 0 {
		return 0, calcErrorf(ErrInvalidInput, "cubic feet must be > 0, got %v", cubicFeet)
	}
	if forced != nil {
		if *forced < t.MinCrew || *forced > t.MaxCrew {
			return 0, calcErrorf(ErrInvalidCrewSize, "forced crew size must be in [%d,%d], got %d", t.MinCrew, t.MaxCrew, *forced)
		}
		return *forced, nil
	}
	return pickBand(t.CrewBands, cubicFeet), nil
}
