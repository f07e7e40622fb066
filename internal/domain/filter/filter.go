// Package filter owns the persisted filter selections and keeps them valid
// against the current dataset's domain.
//
// Two rules cover every situation: a dataset replacement (signature change)
// resets the state to the full domain, and anything else clamps the state to
// the domain. Clamping never errors; an emptied selection falls back to
// "all" and an empty date intersection falls back to the full span.
package filter

import (
	"github.com/okian/salesdash/internal/domain/model"
)

// Edit is a partial change to the filter state. Nil fields are untouched;
// a non-nil empty set means "clear", which clamping turns into select-all.
type Edit struct {
	DateRange  *model.DateRange `json:"date_range,omitempty"`
	Categories *[]string        `json:"categories,omitempty"`
	Regions    *[]string        `json:"regions,omitempty"`
}

// Default returns the select-all state for a dataset: full date span, every
// category, every region.
func Default(ds *model.Dataset) model.FilterState {
	min, max := ds.DateBounds()
	return model.FilterState{
		DateRange:  model.DateRange{From: min, To: max},
		Categories: ds.Categories(),
		Regions:    ds.Regions(),
	}
}

// Reconcile corrects state against the dataset's current domain. When the
// signature changed the old state is discarded entirely. Otherwise each
// field is clamped; the returned flag reports whether anything was
// silently corrected, so callers can surface an informational warning.
func Reconcile(state model.FilterState, ds *model.Dataset, signatureChanged bool) (model.FilterState, bool) {
	if signatureChanged {
		return Default(ds), false
	}
	clamped := clamp(state, ds)
	return clamped, !clamped.Equal(state)
}

// ApplyEdit merges a partial edit into the current state and clamps the
// result. A user cannot select values outside the current domain.
func ApplyEdit(state model.FilterState, edit Edit, ds *model.Dataset) (model.FilterState, bool) {
	next := state
	if edit.DateRange != nil {
		next.DateRange = model.DateRange{
			From: model.Midnight(edit.DateRange.From),
			To:   model.Midnight(edit.DateRange.To),
		}
	}
	if edit.Categories != nil {
		next.Categories = model.NormalizeSet(*edit.Categories)
	}
	if edit.Regions != nil {
		next.Regions = model.NormalizeSet(*edit.Regions)
	}
	clamped := clamp(next, ds)
	return clamped, !clamped.Equal(next)
}

// clamp narrows every field to the dataset's valid domain.
func clamp(state model.FilterState, ds *model.Dataset) model.FilterState {
	min, max := ds.DateBounds()
	span := model.DateRange{From: min, To: max}

	out := state
	if r, ok := state.DateRange.Intersect(span); ok {
		out.DateRange = r
	} else {
		out.DateRange = span
	}
	out.Categories = clampSet(state.Categories, ds.Categories())
	out.Regions = clampSet(state.Regions, ds.Regions())
	return out
}

// clampSet drops selections absent from the domain; an emptied selection
// falls back to the whole domain.
func clampSet(selected, domain []string) []string {
	valid := make(map[string]struct{}, len(domain))
	for _, v := range domain {
		valid[v] = struct{}{}
	}
	kept := make([]string, 0, len(selected))
	for _, v := range model.NormalizeSet(selected) {
		if _, ok := valid[v]; ok {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return append([]string(nil), domain...)
	}
	return kept
}
