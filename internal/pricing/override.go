package pricing

import (
	"math"

	"github.com/Simplici0/movequote/internal/tracked"
)

// Overridable charge item fields.
const (
	FieldAmount          = "amount"
	FieldHours           = "hours"
	FieldHourlyRate      = "hourly_rate"
	FieldNumberOfCrew    = "number_of_crew"
	FieldDrivingTimeMins = "driving_time_mins"
	FieldIsBillable      = "is_billable"
)

// ChargeOverride sets or clears a user actual on one field of a charge item.
// Numeric fields read Value, is_billable reads Billable. Both nil clears the
// override.
type ChargeOverride struct {
	Type     ChargeType `json:"type" yaml:"type"`
	Field    string     `json:"field" yaml:"field"`
	Value    *float64   `json:"value,omitempty" yaml:"value,omitempty"`
	Billable *bool      `json:"billable,omitempty" yaml:"billable,omitempty"`
}

func (o ChargeOverride) clears() bool {
	return o.Value == nil && o.Billable == nil
}

// ApplyOverrides returns a copy of data with every override applied in order.
// Amounts are not recomputed from overridden hours or rates.
func ApplyOverrides(data JobChargeData, overrides []ChargeOverride) (JobChargeData, error) {
	out := JobChargeData{JobID: data.JobID, Items: make([]JobChargeItem, len(data.Items))}
	copy(out.Items, data.Items)

	for _, o := range overrides {
		idx := -1
		for i := range out.Items {
			if out.Items[i].Type == o.Type {
				idx = i
				break
			}
		}
		if idx < 0 {
			return data, calcErrorf(ErrInvalidInput, "job has no %q charge", o.Type)
		}
		item, err := applyOverride(out.Items[idx], o)
		if err != nil {
			return data, err
		}
		out.Items[idx] = item
	}
	return out, nil
}

func applyOverride(it JobChargeItem, o ChargeOverride) (JobChargeItem, error) {
	if o.Value != nil && (math.IsNaN(*o.Value) || math.IsInf(*o.Value, 0) || *o.Value < 0) {
		return it, calcErrorf(ErrInvalidInput, "%s.%s must be a finite number >= 0", o.Type, o.Field)
	}

	switch o.Field {
	case FieldAmount:
		if o.Value == nil && o.Billable != nil {
			return it, calcErrorf(ErrInvalidInput, "%s.amount takes a value", o.Type)
		}
		it.Amount = overrideFloat(it.Amount, o)
	case FieldHours:
		if err := overrideOptional(&it.Hours, o); err != nil {
			return it, err
		}
	case FieldHourlyRate:
		if err := overrideOptional(&it.HourlyRate, o); err != nil {
			return it, err
		}
	case FieldDrivingTimeMins:
		if err := overrideOptional(&it.DrivingTimeMins, o); err != nil {
			return it, err
		}
	case FieldNumberOfCrew:
		if it.NumberOfCrew == nil {
			return it, calcErrorf(ErrInvalidInput, "%s has no number_of_crew", o.Type)
		}
		if o.clears() {
			v := tracked.ClearOverride(*it.NumberOfCrew)
			it.NumberOfCrew = &v
			return it, nil
		}
		if o.Value == nil || *o.Value < 1 || *o.Value != math.Trunc(*o.Value) {
			return it, calcErrorf(ErrInvalidCrewSize, "%s.number_of_crew must be a whole number >= 1", o.Type)
		}
		v := tracked.Override(*it.NumberOfCrew, int(*o.Value))
		it.NumberOfCrew = &v
	case FieldIsBillable:
		if o.clears() {
			it.IsBillable = tracked.ClearOverride(it.IsBillable)
			return it, nil
		}
		if o.Billable == nil {
			return it, calcErrorf(ErrInvalidInput, "%s.is_billable takes billable", o.Type)
		}
		it.IsBillable = tracked.Override(it.IsBillable, *o.Billable)
	default:
		return it, calcErrorf(ErrInvalidInput, "unknown charge field %q", o.Field)
	}
	return it, nil
}

func overrideFloat(v tracked.Value[float64], o ChargeOverride) tracked.Value[float64] {
	if o.Value == nil {
		return tracked.ClearOverride(v)
	}
	return tracked.Override(v, *o.Value)
}

func overrideOptional(field **tracked.Value[float64], o ChargeOverride) error {
	if *field == nil {
		return calcErrorf(ErrInvalidInput, "%s has no %s", o.Type, o.Field)
	}
	if o.Value == nil && o.Billable != nil {
		return calcErrorf(ErrInvalidInput, "%s.%s takes a value", o.Type, o.Field)
	}
	v := overrideFloat(**field, o)
	*field = &v
	return nil
}
