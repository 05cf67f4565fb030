// Package query answers window-bounded aggregate queries over one fused
// dataset. Every call is a pure function of (dataset, window, selection);
// nothing is cached and the dataset is never modified.
package query

import (
	"fmt"
	"sort"

	"github.com/ecomove/mobility-backend-go/internal/fusion"
	"github.com/ecomove/mobility-backend-go/internal/models"
	"github.com/ecomove/mobility-backend-go/internal/stats"
)

// CorrelationColumns is the fixed column set of the correlation matrix.
// Survey/feedback columns are present only when their source was joined.
var CorrelationColumns = []string{
	models.MetricPercentSustainable,
	models.MetricTotal,
	string(models.KindWalking),
	string(models.KindCycling),
}

// SurveyCorrelationColumns extends the matrix when survey data is joined.
var SurveyCorrelationColumns = []string{
	models.MetricWellBeing,
	models.MetricHabitCount,
}

// FeedbackCorrelationColumns extends the matrix when feedback is joined.
var FeedbackCorrelationColumns = []string{
	models.MetricSatisfaction,
}

// Window is a resolved closed period range.
type Window struct {
	StartKey string
	EndKey   string
}

// Contains reports whether a period key falls inside the window.
func (w Window) Contains(key string) bool {
	return key >= w.StartKey && key <= w.EndKey
}

// Engine evaluates range queries against one immutable dataset.
type Engine struct {
	ds *fusion.Dataset
}

// NewEngine creates a query engine over the given dataset.
func NewEngine(ds *fusion.Dataset) *Engine {
	return &Engine{ds: ds}
}

// Periods returns the sorted distinct period key domain the window
// indices select into.
func (e *Engine) Periods() []string {
	return e.ds.Periods()
}

// ResolveWindow turns two index positions into the sorted period domain
// into a closed window of period keys. Indices are clamped to the domain;
// an inverted pair is reordered. Fails only when the domain is empty.
func (e *Engine) ResolveWindow(startIdx, endIdx int) (Window, error) {
	periods := e.ds.Periods()
	if len(periods) == 0 {
		return Window{}, fmt.Errorf("period domain is empty")
	}

	if startIdx > endIdx {
		startIdx, endIdx = endIdx, startIdx
	}
	startIdx = clamp(startIdx, 0, len(periods)-1)
	endIdx = clamp(endIdx, 0, len(periods)-1)

	return Window{StartKey: periods[startIdx], EndKey: periods[endIdx]}, nil
}

// filtered returns the rows inside the window, in dataset order.
func (e *Engine) filtered(w Window) []models.FusedRow {
	var rows []models.FusedRow
	for _, row := range e.ds.Rows() {
		if w.Contains(row.PeriodKey) {
			rows = append(rows, row)
		}
	}
	return rows
}

// KPIs computes the headline aggregates for the window. An empty filtered
// set yields zero means with HasData false rather than failing.
func (e *Engine) KPIs(w Window) models.KPIReport {
	rows := e.filtered(w)
	report := models.KPIReport{RowCount: len(rows)}
	if len(rows) == 0 {
		return report
	}
	report.HasData = true

	percents := make([]float64, 0, len(rows))
	byGroup := make(map[string][]float64)
	for _, row := range rows {
		percents = append(percents, row.PercentSustainable)
		byGroup[row.Group] = append(byGroup[row.Group], row.PercentSustainable)
		report.TotalDistanceKm += row.TotalKm
		report.SustainableKm += row.SustainableKm
		report.NonSustainableKm += row.TotalKm - row.SustainableKm
	}
	report.MeanPercentSustainable = stats.Mean(percents)

	// Ties resolve to the first group in ascending label order.
	groups := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	for i, g := range groups {
		mean := stats.Mean(byGroup[g])
		if i == 0 || mean > report.BestGroupValue {
			report.BestGroup = g
			report.BestGroupValue = mean
		}
	}

	return report
}

// TimeSeries computes the per-period-per-group mean of the selected
// metric, ordered by period key ascending then group. Rows where the
// metric is missing are excluded from the mean, not counted as zero.
func (e *Engine) TimeSeries(w Window, metric string) []models.TimeSeriesPoint {
	type cell struct {
		sum   float64
		count int
	}
	cells := make(map[string]map[string]*cell)

	for _, row := range e.filtered(w) {
		v := row.Metric(metric)
		if !v.Valid {
			continue
		}
		groups, ok := cells[row.PeriodKey]
		if !ok {
			groups = make(map[string]*cell)
			cells[row.PeriodKey] = groups
		}
		c, ok := groups[row.Group]
		if !ok {
			c = &cell{}
			groups[row.Group] = c
		}
		c.sum += v.Value
		c.count++
	}

	var points []models.TimeSeriesPoint
	for _, p := range e.ds.Periods() {
		groups, ok := cells[p]
		if !ok {
			continue
		}
		names := make([]string, 0, len(groups))
		for g := range groups {
			names = append(names, g)
		}
		sort.Strings(names)
		for _, g := range names {
			c := groups[g]
			points = append(points, models.TimeSeriesPoint{
				PeriodKey: p,
				Group:     g,
				Mean:      c.sum / float64(c.count),
				Count:     c.count,
			})
		}
	}
	return points
}

// Composition computes the per-group mean distance for every movement
// kind, for the composition comparison chart.
func (e *Engine) Composition(w Window) []models.CompositionRow {
	byGroup := make(map[string][]models.FusedRow)
	for _, row := range e.filtered(w) {
		byGroup[row.Group] = append(byGroup[row.Group], row)
	}

	groups := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	var result []models.CompositionRow
	for _, g := range groups {
		rows := byGroup[g]
		for _, kind := range models.AllKinds {
			values := make([]float64, 0, len(rows))
			for _, row := range rows {
				values = append(values, row.DistanceByKind[kind])
			}
			result = append(result, models.CompositionRow{
				Group:  g,
				Kind:   kind,
				MeanKm: stats.Mean(values),
			})
		}
	}
	return result
}

// Correlation computes the Pearson matrix over the fixed numeric columns,
// restricted to rows inside the window. Each cell uses pairwise-complete
// observations; missing values are excluded. When no pair reaches two
// observations the result carries an explicit insufficient-data signal.
func (e *Engine) Correlation(w Window) models.CorrelationMatrix {
	columns := append([]string{}, CorrelationColumns...)
	if e.ds.HasSurvey() {
		columns = append(columns, SurveyCorrelationColumns...)
	}
	if e.ds.HasFeedback() {
		columns = append(columns, FeedbackCorrelationColumns...)
	}

	rows := e.filtered(w)
	matrix := models.CorrelationMatrix{Columns: columns}

	n := len(columns)
	values := make([][]float64, n)
	counts := make([][]int, n)
	anyPair := false

	for i := 0; i < n; i++ {
		values[i] = make([]float64, n)
		counts[i] = make([]int, n)
		for j := 0; j < n; j++ {
			xs, ys := pairwiseComplete(rows, columns[i], columns[j])
			counts[i][j] = len(xs)
			if len(xs) >= 2 {
				anyPair = true
				values[i][j] = stats.PearsonCorrelation(xs, ys)
			}
		}
	}

	if !anyPair {
		matrix.InsufficientData = true
		return matrix
	}
	matrix.Values = values
	matrix.Counts = counts
	return matrix
}

// pairwiseComplete collects the rows where both metrics are present.
func pairwiseComplete(rows []models.FusedRow, xCol, yCol string) (xs, ys []float64) {
	for i := range rows {
		x := rows[i].Metric(xCol)
		y := rows[i].Metric(yCol)
		if x.Valid && y.Valid {
			xs = append(xs, x.Value)
			ys = append(ys, y.Value)
		}
	}
	return xs, ys
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
