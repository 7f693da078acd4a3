package pricing

import "sort"

// HourlyRate resolves the hourly rate for a service type and crew size. Crew
// sizes above the table are extrapolated with the per-additional-mover rate;
// sizes between defined entries take the next defined size's rate.
func HourlyRate(t *Tables, svc ServiceType, crew int) (float64, error) {
	table, found := t.Rates[svc]
	if !found {
		return 0, calcErrorf(ErrInvalidServiceType, "no hourly rates for service type %q", svc)
	}
	if crew <= 0 {
		return 0, calcErrorf(ErrInvalidCrewSize, "crew size must be > 0, got %d", crew)
	}
	if rate, hit := table.ByCrew[crew]; hit {
		return rate, nil
	}

	sizes := make([]int, 0, len(table.ByCrew))
	for size := range table.ByCrew {
		sizes = append(sizes, size)
	}
	if len(sizes) == 0 {
		return 0, calcErrorf(ErrInvalidServiceType, "empty rate table for service type %q", svc)
	}
	sort.Ints(sizes)

	largest := sizes[len(sizes)-1]
	if crew > largest {
		perMover := table.PerAdditionalMover
		if perMover == 0 {
			perMover = t.DefaultPerAdditionalMover
		}
		return table.ByCrew[largest] + float64(crew-largest)*perMover, nil
	}

	for _, size := range sizes {
		if size >= crew {
			return table.ByCrew[size], nil
		}
	}
	return table.ByCrew[largest], nil
}

// BillingRate is HourlyRate with the emergency multiplier applied.
func BillingRate(t *Tables, svc ServiceType, crew int, emergency bool) (float64, error) {
	rate, err := HourlyRate(t, svc, crew)
	if err != nil {
		return 0, err
	}
	if emergency {
		rate *= t.EmergencyRateMultiplier
	}
	return rate, nil
}
