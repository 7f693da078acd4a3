package pricing

import (
	"sort"
	"strings"

	"github.com/Simplici0/movequote/internal/tracked"
)

// ChargeType names one billable category.
type ChargeType string

const (
	ChargePacking          ChargeType = "packing"
	ChargeLoad             ChargeType = "load"
	ChargeTravel           ChargeType = "travel"
	ChargeUnload           ChargeType = "unload"
	ChargeUnpacking        ChargeType = "unpacking"
	ChargeMaterials        ChargeType = "materials"
	ChargeMileage          ChargeType = "mileage"
	ChargeFuel             ChargeType = "fuel"
	ChargeAdditionalTrucks ChargeType = "additional_trucks"
	ChargeSpecialItems     ChargeType = "special_items"
	ChargeMinimumTime      ChargeType = "minimum_time"
)

// ChargeOrder is the precedence charge items are emitted in.
var ChargeOrder = []ChargeType{
	ChargePacking,
	ChargeLoad,
	ChargeTravel,
	ChargeUnload,
	ChargeUnpacking,
	ChargeMaterials,
	ChargeMileage,
	ChargeFuel,
	ChargeAdditionalTrucks,
	ChargeSpecialItems,
	ChargeMinimumTime,
}

func chargeRank(ct ChargeType) int {
	for i, c := range ChargeOrder {
		if c == ct {
			return i
		}
	}
	return len(ChargeOrder)
}

// JobChargeItem is one billable line.
type JobChargeItem struct {
	Type            ChargeType              `json:"type" yaml:"type"`
	Description     string                  `json:"description,omitempty" yaml:"description,omitempty"`
	HourlyRate      *tracked.Value[float64] `json:"hourly_rate,omitempty" yaml:"hourly_rate,omitempty"`
	Hours           *tracked.Value[float64] `json:"hours,omitempty" yaml:"hours,omitempty"`
	NumberOfCrew    *tracked.Value[int]     `json:"number_of_crew,omitempty" yaml:"number_of_crew,omitempty"`
	DrivingTimeMins *tracked.Value[float64] `json:"driving_time_mins,omitempty" yaml:"driving_time_mins,omitempty"`
	Amount          tracked.Value[float64]  `json:"amount" yaml:"amount"`
	IsBillable      tracked.Value[bool]     `json:"is_billable" yaml:"is_billable"`
}

// Overridden reports whether any field of the item carries a user override.
func (it JobChargeItem) Overridden() bool {
	return it.Amount.IsOverridden ||
		it.IsBillable.IsOverridden ||
		(it.HourlyRate != nil && it.HourlyRate.IsOverridden) ||
		(it.Hours != nil && it.Hours.IsOverridden) ||
		(it.NumberOfCrew != nil && it.NumberOfCrew.IsOverridden) ||
		(it.DrivingTimeMins != nil && it.DrivingTimeMins.IsOverridden)
}

// JobChargeData is the itemized charge set persisted for a job.
type JobChargeData struct {
	JobID string          `json:"job_id" yaml:"job_id"`
	Items []JobChargeItem `json:"items" yaml:"items"`
}

// Item returns the first item of a type.
func (d JobChargeData) Item(ct ChargeType) (JobChargeItem, bool) {
	for _, it := range d.Items {
		if it.Type == ct {
			return it, true
		}
	}
	return JobChargeItem{}, false
}

// Total sums the current amount of every billable item.
func (d JobChargeData) Total() float64 {
	amounts := make([]float64, 0, len(d.Items))
	for _, it := range d.Items {
		if it.IsBillable.Value {
			amounts = append(amounts, it.Amount.Value)
		}
	}
	return Round2(Sum(amounts...))
}

// ChargeBasis carries the computed quantities the charge builder itemizes.
type ChargeBasis struct {
	JobID               string
	ServiceType         ServiceType
	Crew                int
	HourlyRate          float64
	Base                BaseTime
	Travel              Travel
	Materials           *Materials
	AdditionalTruckCost float64
	BilledHours         float64
	SpecialItems        []SpecialItem
}

// LoadUnloadHours splits billed moving hours by service direction. Both-way
// services split by the load share, each side rounded up independently.
func LoadUnloadHours(t *Tables, svc ServiceType, movingHours float64) (load, unload float64) {
	if movingHours <= 0 {
		return 0, 0
	}
	switch t.Services[svc].Direction {
	case DirectionLoad:
		return movingHours, 0
	case DirectionUnload:
		return 0, movingHours
	default:
		return RoundUpQuarter(movingHours * t.LoadShare), RoundUpQuarter(movingHours * (1 - t.LoadShare))
	}
}

// BuildCharges itemizes a computed job in the fixed precedence. Lines with a zero
// amount are not emitted; the minimum-time line appears only when the minimum
// was binding and tops the labor lines up to exactly the minimum.
func BuildCharges(t *Tables, b ChargeBasis) (JobChargeData, error) {
	if _, found := t.Services[b.ServiceType]; !found {
		return JobChargeData{}, calcErrorf(ErrInvalidServiceType, "unknown service type %q", b.ServiceType)
	}
	if b.Crew <= 0 {
		return JobChargeData{}, calcErrorf(ErrInvalidCrewSize, "crew size must be > 0, got %d", b.Crew)
	}

	data := JobChargeData{JobID: b.JobID, Items: []JobChargeItem{}}
	labor := func(ct ChargeType, hours float64) {
		if hours <= 0 {
			return
		}
		data.Items = append(data.Items, JobChargeItem{
			Type:         ct,
			HourlyRate:   tracked.Ptr(Round2(b.HourlyRate), "USD/hour"),
			Hours:        tracked.Ptr(hours, "hours"),
			NumberOfCrew: tracked.Ptr(b.Crew, "movers"),
			Amount:       tracked.New(Round2(hours*b.HourlyRate), "USD"),
			IsBillable:   tracked.New(true, ""),
		})
	}
	flat := func(ct ChargeType, description string, amount float64) {
		if amount <= 0 {
			return
		}
		data.Items = append(data.Items, JobChargeItem{
			Type:        ct,
			Description: description,
			Amount:      tracked.New(Round2(amount), "USD"),
			IsBillable:  tracked.New(true, ""),
		})
	}

	load, unload := LoadUnloadHours(t, b.ServiceType, b.Base.MovingHours)

	labor(ChargePacking, b.Base.PackingHours)
	labor(ChargeLoad, load)
	if b.Travel.TimeBased && b.Travel.TravelCost > 0 {
		data.Items = append(data.Items, JobChargeItem{
			Type:            ChargeTravel,
			HourlyRate:      tracked.Ptr(Round2(b.HourlyRate), "USD/hour"),
			Hours:           tracked.Ptr(b.Travel.BilledTravelHours, "hours"),
			NumberOfCrew:    tracked.Ptr(b.Crew, "movers"),
			DrivingTimeMins: tracked.Ptr(b.Travel.DurationMinutes, "minutes"),
			Amount:          tracked.New(Round2(b.Travel.TravelCost), "USD"),
			IsBillable:      tracked.New(true, ""),
		})
	}
	labor(ChargeUnload, unload)
	labor(ChargeUnpacking, b.Base.UnpackingHours)
	if b.Materials != nil {
		flat(ChargeMaterials, "packing materials", b.Materials.Total)
	}
	flat(ChargeMileage, "", b.Travel.MileageCost)
	flat(ChargeFuel, "", b.Travel.FuelCost)
	if b.AdditionalTruckCost > 0 {
		data.Items = append(data.Items, JobChargeItem{
			Type:       ChargeAdditionalTrucks,
			HourlyRate: tracked.Ptr(t.AdditionalTruckHourly, "USD/hour"),
			Hours:      tracked.Ptr(b.BilledHours, "hours"),
			Amount:     tracked.New(Round2(b.AdditionalTruckCost), "USD"),
			IsBillable: tracked.New(true, ""),
		})
	}
	if len(b.SpecialItems) > 0 {
		names := make([]string, 0, len(b.SpecialItems))
		fees := make([]float64, 0, len(b.SpecialItems))
		for _, item := range b.SpecialItems {
			names = append(names, item.Name)
			fees = append(fees, item.Fee)
		}
		flat(ChargeSpecialItems, strings.Join(names, ", "), Sum(fees...))
	}
	if b.Base.MinimumApplied {
		// Load and unload round up independently, so the top-up is measured
		// against the emitted labor lines rather than the computed hours.
		lineHours := b.Base.PackingHours + load + unload + b.Base.UnpackingHours
		if topUp := t.MinimumHours - lineHours; topUp > 0 {
			data.Items = append(data.Items, JobChargeItem{
				Type:         ChargeMinimumTime,
				HourlyRate:   tracked.Ptr(Round2(b.HourlyRate), "USD/hour"),
				Hours:        tracked.Ptr(topUp, "hours"),
				NumberOfCrew: tracked.Ptr(b.Crew, "movers"),
				Amount:       tracked.New(Round2(topUp*b.HourlyRate), "USD"),
				IsBillable:   tracked.New(true, ""),
			})
		}
	}
	return data, nil
}

func sortCharges(items []JobChargeItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return chargeRank(items[i].Type) < chargeRank(items[j].Type)
	})
}
