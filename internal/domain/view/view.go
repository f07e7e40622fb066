// Package view derives the filtered record subset every page reads.
package view

import (
	"github.com/okian/salesdash/internal/domain/model"
)

// FilteredView is the subset of dataset records matching a filter state.
// An empty view is a valid result, not an error; presentation of "no data"
// is a consumer decision.
type FilteredView struct {
	Records []model.Record
	Total   int // records in the source dataset
}

// Len returns the number of matching records.
func (v *FilteredView) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Records)
}

// Apply filters the dataset: date within the range (inclusive), category and
// region in the selected sets. Pure and order-preserving; the relative order
// of matching records from the source dataset is kept.
func Apply(ds *model.Dataset, state model.FilterState) *FilteredView {
	categories := toSet(state.Categories)
	regions := toSet(state.Regions)

	out := &FilteredView{Total: ds.Len()}
	for _, r := range ds.Records {
		if !state.DateRange.Contains(r.Date) {
			continue
		}
		if _, ok := categories[r.Category]; !ok {
			continue
		}
		if _, ok := regions[r.Region]; !ok {
			continue
		}
		out.Records = append(out.Records, r)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
