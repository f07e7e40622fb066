// Package model contains domain models passed between layers.
package model

import (
	"sort"
	"time"
)

// Source tags where a dataset came from.
type Source string

// Known dataset sources.
const (
	SourceSample Source = "sample"
	SourceUpload Source = "upload"
)

// Record represents one row of sales data after validation.
// Dates are normalized to midnight UTC so range comparisons are exact.
type Record struct {
	Date      time.Time `json:"date"`
	Category  string    `json:"category"`
	Region    string    `json:"region"`
	Sales     float64   `json:"sales"`
	Units     int       `json:"units"`
	Customers int       `json:"customers"`
}

// Dataset is the canonical, validated collection of records for a session.
// Record order is meaningful and preserved by every downstream consumer.
type Dataset struct {
	Records []Record
	Source  Source
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Categories returns the sorted distinct categories in the dataset.
func (d *Dataset) Categories() []string {
	return d.distinct(func(r Record) string { return r.Category })
}

// Regions returns the sorted distinct regions in the dataset.
func (d *Dataset) Regions() []string {
	return d.distinct(func(r Record) string { return r.Region })
}

// DateBounds returns the minimum and maximum record dates.
// Both are zero when the dataset is empty.
func (d *Dataset) DateBounds() (time.Time, time.Time) {
	if d.Len() == 0 {
		return time.Time{}, time.Time{}
	}
	min, max := d.Records[0].Date, d.Records[0].Date
	for _, r := range d.Records[1:] {
		if r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max
}

func (d *Dataset) distinct(key func(Record) string) []string {
	if d.Len() == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	for _, r := range d.Records {
		seen[key(r)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Midnight truncates t to midnight UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
