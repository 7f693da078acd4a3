package pricing

import (
	"fmt"

	"github.com/Simplici0/movequote/internal/tracked"
)

// Rerate merges a persisted charge set into a freshly built one. Every field the
// user overrode keeps its actual; everything else takes the fresh estimate. The
// persisted job id always wins. Overridden items the fresh build no longer
// produces are carried over and reported.
func Rerate(old, fresh JobChargeData) (JobChargeData, []string) {
	out := JobChargeData{JobID: fresh.JobID, Items: make([]JobChargeItem, 0, len(fresh.Items))}
	if old.JobID != "" {
		out.JobID = old.JobID
	}

	used := make([]bool, len(old.Items))
	for _, item := range fresh.Items {
		idx := matchItem(old.Items, used, item.Type)
		if idx < 0 {
			out.Items = append(out.Items, item)
			continue
		}
		used[idx] = true
		out.Items = append(out.Items, mergeItem(old.Items[idx], item))
	}

	var warnings []string
	for i, item := range old.Items {
		if used[i] || !item.Overridden() {
			continue
		}
		out.Items = append(out.Items, item)
		warnings = append(warnings, fmt.Sprintf("charge %q no longer applies to the current inputs; kept because it has user overrides", item.Type))
	}
	sortCharges(out.Items)
	return out, warnings
}

func matchItem(items []JobChargeItem, used []bool, ct ChargeType) int {
	for i, it := range items {
		if !used[i] && it.Type == ct {
			return i
		}
	}
	return -1
}

func mergeItem(old, fresh JobChargeItem) JobChargeItem {
	out := fresh
	if fresh.Description == "" {
		out.Description = old.Description
	}
	out.HourlyRate = tracked.MergePtr(old.HourlyRate, fresh.HourlyRate)
	out.Hours = tracked.MergePtr(old.Hours, fresh.Hours)
	out.NumberOfCrew = tracked.MergePtr(old.NumberOfCrew, fresh.NumberOfCrew)
	out.DrivingTimeMins = tracked.MergePtr(old.DrivingTimeMins, fresh.DrivingTimeMins)
	out.Amount = tracked.Merge(old.Amount, fresh.Amount)
	out.IsBillable = tracked.Merge(old.IsBillable, fresh.IsBillable)
	return out
}
