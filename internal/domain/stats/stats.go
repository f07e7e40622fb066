// Package stats computes the derivative aggregates pages and the exporter
// consume. Everything here is a pure function over a filtered view and
// produces a stable schema; rendering and serialization live elsewhere.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/okian/salesdash/internal/domain/model"
	"github.com/okian/salesdash/internal/domain/view"
)

// Metric names used across summaries and the correlation matrix.
var metricNames = []string{"Sales", "Units", "Customers"}

// MetricSummary describes one numeric column.
type MetricSummary struct {
	Metric string  `json:"metric"`
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// GroupAggregate is one row of a category or region performance matrix.
type GroupAggregate struct {
	Key        string  `json:"key"`
	TotalSales float64 `json:"total_sales"`
	MeanSale   float64 `json:"mean_sale"`
	StdDev     float64 `json:"std_dev"`
	Units      int     `json:"units"`
	Customers  int     `json:"customers"`
	// Efficiency is sales per unit sold; zero when no units moved.
	Efficiency float64 `json:"efficiency"`
}

// DailyPoint is one day of the trend series. MovingAvg is nil until the
// window has filled.
type DailyPoint struct {
	Date      time.Time `json:"date"`
	Sales     float64   `json:"sales"`
	Units     int       `json:"units"`
	Customers int       `json:"customers"`
	MovingAvg *float64  `json:"moving_avg,omitempty"`
}

// ParetoSlice is one category's share of total sales with the running
// cumulative percentage, sorted descending by sales.
type ParetoSlice struct {
	Category   string  `json:"category"`
	Sales      float64 `json:"sales"`
	Share      float64 `json:"share_pct"`
	Cumulative float64 `json:"cumulative_pct"`
}

// Correlation is the Pearson correlation matrix over the three metrics.
type Correlation struct {
	Metrics []string    `json:"metrics"`
	Matrix  [][]float64 `json:"matrix"`
}

// Summary computes count/sum/mean/std/min/max per metric. Std is the sample
// standard deviation (n-1), zero for fewer than two records.
func Summary(v *view.FilteredView) []MetricSummary {
	cols := columns(v)
	out := make([]MetricSummary, len(metricNames))
	for i, name := range metricNames {
		out[i] = summarize(name, cols[i])
	}
	return out
}

// ByCategory computes the category performance matrix, sorted by total
// sales descending.
func ByCategory(v *view.FilteredView) []GroupAggregate {
	return groupBy(v, func(r model.Record) string { return r.Category })
}

// ByRegion computes the region performance matrix, sorted by total sales
// descending.
func ByRegion(v *view.FilteredView) []GroupAggregate {
	return groupBy(v, func(r model.Record) string { return r.Region })
}

// DailyTrend sums the metrics per day, ascending by date, and annotates a
// trailing moving average of sales over the given window.
func DailyTrend(v *view.FilteredView, window int) []DailyPoint {
	byDay := make(map[time.Time]*DailyPoint)
	for _, r := range v.Records {
		p, ok := byDay[r.Date]
		if !ok {
			p = &DailyPoint{Date: r.Date}
			byDay[r.Date] = p
		}
		p.Sales += r.Sales
		p.Units += r.Units
		p.Customers += r.Customers
	}

	out := make([]DailyPoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	if window > 0 {
		var running float64
		for i := range out {
			running += out[i].Sales
			if i >= window {
				running -= out[i-window].Sales
			}
			if i >= window-1 {
				avg := running / float64(window)
				out[i].MovingAvg = &avg
			}
		}
	}
	return out
}

// TopDays returns the n best days by total sales from a trend series.
func TopDays(trend []DailyPoint, n int) []DailyPoint {
	return rankDays(trend, n, func(a, b DailyPoint) bool { return a.Sales > b.Sales })
}

// BottomDays returns the n worst days by total sales.
func BottomDays(trend []DailyPoint, n int) []DailyPoint {
	return rankDays(trend, n, func(a, b DailyPoint) bool { return a.Sales < b.Sales })
}

// Pareto computes each category's share of sales and the cumulative
// percentage, descending.
func Pareto(v *view.FilteredView) []ParetoSlice {
	groups := ByCategory(v)
	var total float64
	for _, g := range groups {
		total += g.TotalSales
	}
	out := make([]ParetoSlice, 0, len(groups))
	var cumulative float64
	for _, g := range groups {
		share := 0.0
		if total > 0 {
			share = g.TotalSales / total * 100
		}
		cumulative += share
		out = append(out, ParetoSlice{
			Category:   g.Key,
			Sales:      g.TotalSales,
			Share:      share,
			Cumulative: cumulative,
		})
	}
	return out
}

// Correlate computes the Pearson correlation matrix over the metrics.
// Columns with zero variance correlate as zero against everything but
// themselves.
func Correlate(v *view.FilteredView) Correlation {
	cols := columns(v)
	n := len(cols)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			switch {
			case i == j:
				matrix[i][j] = 1
			case j < i:
				matrix[i][j] = matrix[j][i]
			default:
				matrix[i][j] = pearson(cols[i], cols[j])
			}
		}
	}
	return Correlation{Metrics: metricNames, Matrix: matrix}
}

func columns(v *view.FilteredView) [3][]float64 {
	var cols [3][]float64
	for i := range cols {
		cols[i] = make([]float64, 0, v.Len())
	}
	for _, r := range v.Records {
		cols[0] = append(cols[0], r.Sales)
		cols[1] = append(cols[1], float64(r.Units))
		cols[2] = append(cols[2], float64(r.Customers))
	}
	return cols
}

func summarize(name string, values []float64) MetricSummary {
	s := MetricSummary{Metric: name, Count: len(values)}
	if len(values) == 0 {
		return s
	}
	s.Min, s.Max = values[0], values[0]
	for _, v := range values {
		s.Sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = s.Sum / float64(len(values))
	s.Std = sampleStd(values, s.Mean)
	return s
}

func sampleStd(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	n := float64(len(x))
	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/n, sumY/n
	var cov, varX, varY float64
	for i := range x {
		dx, dy := x[i]-meanX, y[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

func groupBy(v *view.FilteredView, key func(model.Record) string) []GroupAggregate {
	sales := make(map[string][]float64)
	aggs := make(map[string]*GroupAggregate)
	for _, r := range v.Records {
		k := key(r)
		g, ok := aggs[k]
		if !ok {
			g = &GroupAggregate{Key: k}
			aggs[k] = g
		}
		g.TotalSales += r.Sales
		g.Units += r.Units
		g.Customers += r.Customers
		sales[k] = append(sales[k], r.Sales)
	}

	out := make([]GroupAggregate, 0, len(aggs))
	for k, g := range aggs {
		n := len(sales[k])
		g.MeanSale = g.TotalSales / float64(n)
		g.StdDev = sampleStd(sales[k], g.MeanSale)
		if g.Units > 0 {
			g.Efficiency = g.TotalSales / float64(g.Units)
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSales != out[j].TotalSales {
			return out[i].TotalSales > out[j].TotalSales
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func rankDays(trend []DailyPoint, n int, less func(a, b DailyPoint) bool) []DailyPoint {
	ranked := make([]DailyPoint, len(trend))
	copy(ranked, trend)
	sort.SliceStable(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]DailyPoint, n)
	copy(out, ranked[:n])
	for i := range out {
		out[i].MovingAvg = nil // rank tables carry raw days only
	}
	return out
}
