// Package tracked implements quantities that remember where their value came from:
// the first estimate, the current estimate, and an optional user-entered actual.
package tracked

// Value is a quantity with provenance.
//
// Value mirrors ActualValue when IsOverridden is set and an actual is present,
// otherwise it mirrors EstimatedValue.
type Value[T any] struct {
	Value          T      `json:"value" yaml:"value"`
	InitialValue   T      `json:"initialValue" yaml:"initialValue"`
	EstimatedValue T      `json:"estimatedValue" yaml:"estimatedValue"`
	ActualValue    *T     `json:"actualValue" yaml:"actualValue"`
	IsOverridden   bool   `json:"isOverridden" yaml:"isOverridden"`
	Unit           string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// New creates a freshly estimated value.
func New[T any](estimate T, unit string) Value[T] {
	return Value[T]{
		Value:          estimate,
		InitialValue:   estimate,
		EstimatedValue: estimate,
		Unit:           unit,
	}
}

// Ptr is New for optional fields.
func Ptr[T any](estimate T, unit string) *Value[T] {
	v := New(estimate, unit)
	return &v
}

// Override records a user-entered actual.
func Override[T any](v Value[T], actual T) Value[T] {
	v.ActualValue = &actual
	v.IsOverridden = true
	v.Value = actual
	return v
}

// ClearOverride drops the actual and falls back to the estimate.
func ClearOverride[T any](v Value[T]) Value[T] {
	v.ActualValue = nil
	v.IsOverridden = false
	v.Value = v.EstimatedValue
	return v
}

// Refresh replaces the estimate, leaving any override in place.
func Refresh[T any](v Value[T], estimate T) Value[T] {
	v.EstimatedValue = estimate
	return normalize(v)
}

// Merge combines a persisted value with a freshly computed one. An overridden old
// value keeps its actual; the estimate always comes from fresh. InitialValue is
// carried from old so the first-ever estimate is not lost.
func Merge[T any](old, fresh Value[T]) Value[T] {
	if old.IsOverridden && old.ActualValue == nil {
		// flagged without an actual: the persisted value is kept whole
		return old
	}
	out := fresh
	out.InitialValue = old.InitialValue
	if old.Unit != "" && out.Unit == "" {
		out.Unit = old.Unit
	}
	out.IsOverridden = old.IsOverridden
	out.ActualValue = nil
	if old.IsOverridden {
		actual := *old.ActualValue
		out.ActualValue = &actual
	}
	return normalize(out)
}

// MergePtr is Merge for optional fields. A nil fresh value is kept only if old was
// overridden.
func MergePtr[T any](old, fresh *Value[T]) *Value[T] {
	switch {
	case old == nil:
		return fresh
	case fresh == nil:
		if old.IsOverridden {
			kept := *old
			return &kept
		}
		return nil
	}
	merged := Merge(*old, *fresh)
	return &merged
}

// Consistent reports whether v satisfies the value/actual/estimate invariant.
func Consistent[T comparable](v Value[T]) bool {
	if v.IsOverridden && v.ActualValue != nil {
		return v.Value == *v.ActualValue
	}
	return v.Value == v.EstimatedValue
}

func normalize[T any](v Value[T]) Value[T] {
	if v.IsOverridden && v.ActualValue != nil {
		v.Value = *v.ActualValue
		return v
	}
	v.Value = v.EstimatedValue
	return v
}
