package stats

import (
	"github.com/okian/salesdash/internal/domain/model"
	"github.com/okian/salesdash/internal/domain/view"
)

// Report bundles every section the multi-section exporter serializes:
// summary statistics, category and region aggregates, the daily trend, and
// the raw rows, plus the analytics extras.
type Report struct {
	Summary     []MetricSummary  `json:"summary"`
	ByCategory  []GroupAggregate `json:"by_category"`
	ByRegion    []GroupAggregate `json:"by_region"`
	DailyTrend  []DailyPoint     `json:"daily_trend"`
	TopDays     []DailyPoint     `json:"top_days"`
	BottomDays  []DailyPoint     `json:"bottom_days"`
	Pareto      []ParetoSlice    `json:"pareto"`
	Correlation Correlation      `json:"correlation"`
	Rows        []model.Record   `json:"rows"`
}

// BuildReport computes every section over the view. window is the moving
// average width, topN the size of the top/bottom day tables.
func BuildReport(v *view.FilteredView, window, topN int) *Report {
	trend := DailyTrend(v, window)
	return &Report{
		Summary:     Summary(v),
		ByCategory:  ByCategory(v),
		ByRegion:    ByRegion(v),
		DailyTrend:  trend,
		TopDays:     TopDays(trend, topN),
		BottomDays:  BottomDays(trend, topN),
		Pareto:      Pareto(v),
		Correlation: Correlate(v),
		Rows:        v.Records,
	}
}
