// Package signature fingerprints a dataset's identity-relevant dimensions
// so dataset replacement can be detected cheaply between interactions.
package signature

import (
	"time"

	"github.com/okian/salesdash/internal/domain/model"
)

// Signature is a comparable fingerprint: source tag, sorted distinct
// categories and regions, and the date bounds. Two datasets with identical
// content always produce equal signatures.
type Signature struct {
	Source     model.Source `json:"source"`
	Categories []string     `json:"categories"`
	Regions    []string     `json:"regions"`
	MinDate    time.Time    `json:"min_date"`
	MaxDate    time.Time    `json:"max_date"`
}

// Of computes the signature in a single pass over the dataset (the distinct
// sets and bounds come from the Dataset helpers, each one pass).
func Of(ds *model.Dataset) Signature {
	min, max := ds.DateBounds()
	return Signature{
		Source:     ds.Source,
		Categories: ds.Categories(),
		Regions:    ds.Regions(),
		MinDate:    min,
		MaxDate:    max,
	}
}

// Equal reports structural equality.
func (s Signature) Equal(other Signature) bool {
	if s.Source != other.Source ||
		!s.MinDate.Equal(other.MinDate) ||
		!s.MaxDate.Equal(other.MaxDate) ||
		len(s.Categories) != len(other.Categories) ||
		len(s.Regions) != len(other.Regions) {
		return false
	}
	for i := range s.Categories {
		if s.Categories[i] != other.Categories[i] {
			return false
		}
	}
	for i := range s.Regions {
		if s.Regions[i] != other.Regions[i] {
			return false
		}
	}
	return true
}

// Changed reports whether a newly computed signature differs from the
// stored one.
func Changed(stored, computed Signature) bool {
	return !stored.Equal(computed)
}
