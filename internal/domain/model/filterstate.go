package model

import (
	"sort"
	"time"
)

// DateRange is an inclusive [From, To] span of days.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the range, inclusive on both ends.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// Intersect narrows the range to the overlap with other.
// The second return value is false when the ranges do not overlap.
func (r DateRange) Intersect(other DateRange) (DateRange, bool) {
	out := r
	if other.From.After(out.From) {
		out.From = other.From
	}
	if other.To.Before(out.To) {
		out.To = other.To
	}
	if out.From.After(out.To) {
		return DateRange{}, false
	}
	return out, true
}

// FilterState holds the user's current selections. Categories and Regions
// are kept sorted and deduplicated so states compare structurally.
type FilterState struct {
	DateRange  DateRange `json:"date_range"`
	Categories []string  `json:"categories"`
	Regions    []string  `json:"regions"`
}

// Equal reports structural equality of two filter states.
func (s FilterState) Equal(other FilterState) bool {
	return s.DateRange.From.Equal(other.DateRange.From) &&
		s.DateRange.To.Equal(other.DateRange.To) &&
		equalStrings(s.Categories, other.Categories) &&
		equalStrings(s.Regions, other.Regions)
}

// NormalizeSet sorts and deduplicates a selection set.
func NormalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
