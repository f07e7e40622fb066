// Package sample generates the deterministic built-in sales dataset.
//
// Generation is fully seeded: the same (seed, span, anchor) always yields a
// byte-identical dataset, which is what makes the memoization below and the
// signature comparison upstream meaningful.
package sample

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/okian/salesdash/internal/domain/model"
)

// Default generation constants mirror the shipped demo dataset.
const (
	DefaultSeed     = 42
	DefaultSpanDays = 90

	baseSalesMin      = 1000
	baseSalesSpread   = 4000
	seasonalAmplitude = 500
	noiseStdDev       = 200
	daysPerYear       = 365
)

// defaultAnchor is a fixed end date so the sample is identical across hosts
// and runs. Using "now" would change the signature on every process start.
var defaultAnchor = time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

var (
	defaultCategories = []string{"Electronics", "Clothing", "Food & Beverage", "Home & Garden", "Sports"}
	defaultRegions    = []string{"North", "South", "East", "West"}
)

// Generator produces the sample dataset.
type Generator struct {
	seed       int64
	spanDays   int
	anchor     time.Time
	categories []string
	regions    []string
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed sets the pseudo-random seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithSpanDays sets the number of consecutive days to generate.
func WithSpanDays(days int) Option {
	return func(g *Generator) {
		if days > 0 {
			g.spanDays = days
		}
	}
}

// WithAnchor sets the final day of the generated span.
func WithAnchor(anchor time.Time) Option {
	return func(g *Generator) {
		if !anchor.IsZero() {
			g.anchor = model.Midnight(anchor)
		}
	}
}

// WithCategories overrides the category list.
func WithCategories(categories []string) Option {
	return func(g *Generator) {
		if len(categories) > 0 {
			g.categories = categories
		}
	}
}

// WithRegions overrides the region list.
func WithRegions(regions []string) Option {
	return func(g *Generator) {
		if len(regions) > 0 {
			g.regions = regions
		}
	}
}

// New constructs a Generator with demo defaults.
func New(opts ...Option) *Generator {
	g := &Generator{
		seed:       DefaultSeed,
		spanDays:   DefaultSpanDays,
		anchor:     defaultAnchor,
		categories: defaultCategories,
		regions:    defaultRegions,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the dataset: for every day in the span, one record per
// (category, region) pair. Sales follow a seasonal sine on day-of-year plus
// seeded noise; Units and Customers are integer counts that grow
// monotonically with the sales magnitude.
func (g *Generator) Generate(ctx context.Context) (*model.Dataset, error) {
	rng := rand.New(rand.NewSource(g.seed))
	start := g.anchor.AddDate(0, 0, -(g.spanDays - 1))

	records := make([]model.Record, 0, g.spanDays*len(g.categories)*len(g.regions))
	for day := 0; day < g.spanDays; day++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		date := start.AddDate(0, 0, day)
		seasonal := math.Sin(float64(date.YearDay())/daysPerYear*2*math.Pi) * seasonalAmplitude
		for _, category := range g.categories {
			for _, region := range g.regions {
				base := float64(baseSalesMin + rng.Intn(baseSalesSpread))
				sales := base + seasonal + rng.NormFloat64()*noiseStdDev
				if sales < 0 {
					sales = 0
				}
				records = append(records, model.Record{
					Date:      date,
					Category:  category,
					Region:    region,
					Sales:     sales,
					Units:     scaleCount(sales, 50, 200, rng),
					Customers: scaleCount(sales, 20, 100, rng),
				})
			}
		}
	}
	return &model.Dataset{Records: records, Source: model.SourceSample}, nil
}

// scaleCount maps a sales value into [min, max] with a small seeded jitter.
// Higher sales never produce a lower base count, keeping the relationship
// monotonic without being linear.
func scaleCount(sales float64, min, max int, rng *rand.Rand) int {
	// Normalize against the plausible sales ceiling.
	ceiling := float64(baseSalesMin+baseSalesSpread) + seasonalAmplitude
	frac := sales / ceiling
	if frac > 1 {
		frac = 1
	}
	span := float64(max - min)
	jitter := rng.Float64() * span * 0.1
	n := float64(min) + frac*span*0.9 + jitter
	if n > float64(max) {
		n = float64(max)
	}
	return int(n)
}
