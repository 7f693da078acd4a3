package pricing

import "math"

// DaySplit describes how the job's hours spread over days.
type DaySplit struct {
	TotalHours   float64   `json:"totalHours"`
	CeilingHours float64   `json:"ceilingHours"`
	Days         int       `json:"days"`
	HoursPerDay  []float64 `json:"hoursPerDay"`
	MultiDay     bool      `json:"multiDay"`
}

// SplitDays keeps the job on one day while it fits under the move type's
// ceiling; otherwise it spreads hours evenly over ceil(total/ceiling) days.
func SplitDays(t *Tables, totalHours float64, moveType MoveType) (DaySplit, error) {
	ceiling, found := t.DayCeilings[moveType]
	if !found {
		return DaySplit{}, calcErrorf(ErrInvalidInput, "no day ceiling for move type %q", moveType)
	}
	if totalHours < 0 {
		return DaySplit{}, calcErrorf(ErrInvalidInput, "total hours must be >= 0, got %v", totalHours)
	}

	ds := DaySplit{TotalHours: totalHours, CeilingHours: ceiling, Days: 1}
	if totalHours <= ceiling {
		ds.HoursPerDay = []float64{totalHours}
		return ds, nil
	}

	ds.Days = int(math.Ceil(totalHours / ceiling))
	ds.MultiDay = true
	perDay := totalHours / float64(ds.Days)
	ds.HoursPerDay = make([]float64, ds.Days)
	for i := range ds.HoursPerDay {
		ds.HoursPerDay[i] = perDay
	}
	return ds, nil
}
