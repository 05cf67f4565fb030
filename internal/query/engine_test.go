package query

import (
	"math"
	"testing"
	"time"

	"github.com/ecomove/mobility-backend-go/internal/fusion"
	"github.com/ecomove/mobility-backend-go/internal/models"
)

func metricRow(userID, weekKey string, walking, vehicle float64) models.MobilityMetricRow {
	distances := make(map[models.ActivityKind]float64, len(models.AllKinds))
	for _, kind := range models.AllKinds {
		distances[kind] = 0
	}
	distances[models.KindWalking] = walking
	distances[models.KindPassengerVehicle] = vehicle

	total := walking + vehicle
	percent := 0.0
	if total > 0 {
		percent = walking / total * 100
	}

	return models.MobilityMetricRow{
		UserID:             userID,
		PeriodKey:          weekKey,
		PeriodStart:        time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC),
		DistanceByKind:     distances,
		TotalKm:            total,
		SustainableKm:      walking,
		PercentSustainable: percent,
	}
}

var engineUsers = []models.UserRecord{
	{UserID: "100", Group: "A"},
	{UserID: "200", Group: "B"},
	{UserID: "300", Group: "C"},
}

func buildEngine(mobility []models.MobilityMetricRow, surveys []models.SurveyResponse, feedbacks []models.FeedbackResponse) *Engine {
	return NewEngine(fusion.Join(mobility, engineUsers, surveys, feedbacks))
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestResolveWindow(t *testing.T) {
	e := buildEngine([]models.MobilityMetricRow{
		metricRow("100", "2025-W15", 5, 0),
		metricRow("100", "2025-W16", 4, 0),
		metricRow("100", "2025-W17", 3, 0),
	}, nil, nil)

	w, err := e.ResolveWindow(0, 1)
	if err != nil {
		t.Fatalf("ResolveWindow error: %v", err)
	}
	if w.StartKey != "2025-W15" || w.EndKey != "2025-W16" {
		t.Errorf("window = %+v, want 2025-W15..2025-W16", w)
	}

	// Out-of-range indices clamp, inverted pairs reorder.
	w, err = e.ResolveWindow(10, -3)
	if err != nil {
		t.Fatalf("ResolveWindow error: %v", err)
	}
	if w.StartKey != "2025-W15" || w.EndKey != "2025-W17" {
		t.Errorf("clamped window = %+v, want full domain", w)
	}
}

func TestResolveWindowEmptyDomain(t *testing.T) {
	e := buildEngine(nil, nil, nil)
	if _, err := e.ResolveWindow(0, 0); err == nil {
		t.Error("expected an error for an empty period domain")
	}
}

func TestKPIs(t *testing.T) {
	e := buildEngine([]models.MobilityMetricRow{
		metricRow("100", "2025-W15", 10, 0), // A: 100%
		metricRow("200", "2025-W15", 5, 5),  // B: 50%
		metricRow("100", "2025-W16", 0, 10), // A: 0%
	}, nil, nil)

	w, _ := e.ResolveWindow(0, 1)
	report := e.KPIs(w)

	if !report.HasData || report.RowCount != 3 {
		t.Fatalf("report = %+v, want 3 rows with data", report)
	}
	if !almostEqual(report.MeanPercentSustainable, 50.0) {
		t.Errorf("mean percent = %v, want 50.0", report.MeanPercentSustainable)
	}
	if !almostEqual(report.TotalDistanceKm, 30.0) {
		t.Errorf("total distance = %v, want 30.0", report.TotalDistanceKm)
	}
	if !almostEqual(report.SustainableKm, 15.0) || !almostEqual(report.NonSustainableKm, 15.0) {
		t.Errorf("split = %v/%v, want 15.0/15.0", report.SustainableKm, report.NonSustainableKm)
	}
	// A mean 50, B mean 50: tie resolves to first label in sort order.
	if report.BestGroup != "A" || !almostEqual(report.BestGroupValue, 50.0) {
		t.Errorf("best group = %s (%v), want A (50.0)", report.BestGroup, report.BestGroupValue)
	}
}

func TestKPIsEmptyWindow(t *testing.T) {
	e := buildEngine([]models.MobilityMetricRow{
		metricRow("100", "2025-W15", 5, 0),
	}, nil, nil)

	// A window over a key range with no rows cannot come from
	// ResolveWindow, but the engine must still degrade, not fail.
	report := e.KPIs(Window{StartKey: "2026-W01", EndKey: "2026-W02"})
	if report.HasData {
		t.Error("HasData = true for empty window")
	}
	if report.MeanPercentSustainable != 0 || report.TotalDistanceKm != 0 {
		t.Errorf("empty window aggregates = %+v, want zeros", report)
	}
	if report.BestGroup != "" {
		t.Errorf("best group = %q, want empty", report.BestGroup)
	}
}

func TestTimeSeriesWindowAndOrder(t *testing.T) {
	e := buildEngine([]models.MobilityMetricRow{
		metricRow("100", "2025-W15", 10, 0),
		metricRow("200", "2025-W15", 5, 5),
		metricRow("100", "2025-W16", 0, 10),
		metricRow("100", "2025-W17", 8, 2),
	}, nil, nil)

	w, _ := e.ResolveWindow(0, 1)
	points := e.TimeSeries(w, models.MetricPercentSustainable)

	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	// Ascending by period, then group.
	if points[0].PeriodKey != "2025-W15" || points[0].Group != "A" || !almostEqual(points[0].Mean, 100.0) {
		t.Errorf("points[0] = %+v, want W15/A/100", points[0])
	}
	if points[1].PeriodKey != "2025-W15" || points[1].Group != "B" || !almostEqual(points[1].Mean, 50.0) {
		t.Errorf("points[1] = %+v, want W15/B/50", points[1])
	}
	if points[2].PeriodKey != "2025-W16" || !almostEqual(points[2].Mean, 0.0) {
		t.Errorf("points[2] = %+v, want W16/A/0", points[2])
	}
}

func TestTimeSeriesExcludesMissingMetric(t *testing.T) {
	surveys := []models.SurveyResponse{
		{UserID: "100", PeriodKey: "2025-W15", Answers: map[string]string{"mood": "4"}},
		// User 200 has no coercible answer: excluded, not zero.
		{UserID: "200", PeriodKey: "2025-W15", Answers: map[string]string{"mood": "N/A"}},
	}
	e := buildEngine([]models.MobilityMetricRow{
		metricRow("100", "2025-W15", 10, 0),
		metricRow("200", "2025-W15", 5, 5),
	}, surveys, nil)

	w, _ := e.ResolveWindow(0, 0)
	points := e.TimeSeries(w, models.MetricWellBeing)

	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].Group != "A" || !almostEqual(points[0].Mean, 4.0) || points[0].Count != 1 {
		t.Errorf("point = %+v, want A/4.0/count 1", points[0])
	}
}

func TestComposition(t *testing.T) {
	e := buildEngine([]models.MobilityMetricRow{
		metricRow("100", "2025-W15", 10, 2),
		metricRow("100", "2025-W16", 6, 0),
		metricRow("200", "2025-W15", 3, 3),
	}, nil, nil)

	w, _ := e.ResolveWindow(0, 1)
	rows := e.Composition(w)

	if len(rows) != 2*len(models.AllKinds) {
		t.Fatalf("expected %d composition rows, got %d", 2*len(models.AllKinds), len(rows))
	}
	for _, row := range rows {
		if row.Group == "A" && row.Kind == models.KindWalking && !almostEqual(row.MeanKm, 8.0) {
			t.Errorf("A/walking mean = %v, want 8.0", row.MeanKm)
		}
		if row.Group == "A" && row.Kind == models.KindPassengerVehicle && !almostEqual(row.MeanKm, 1.0) {
			t.Errorf("A/passenger mean = %v, want 1.0", row.MeanKm)
		}
		if row.Group == "B" && row.Kind == models.KindWalking && !almostEqual(row.MeanKm, 3.0) {
			t.Errorf("B/walking mean = %v, want 3.0", row.MeanKm)
		}
	}
}

func TestCorrelationInsufficientData(t *testing.T) {
	e := buildEngine([]models.MobilityMetricRow{
		metricRow("100", "2025-W15", 5, 0),
	}, nil, nil)

	w, _ := e.ResolveWindow(0, 0)
	matrix := e.Correlation(w)

	if !matrix.InsufficientData {
		t.Error("expected insufficient-data signal for a single row")
	}
	if matrix.Values != nil {
		t.Error("Values should be nil when data is insufficient")
	}
}

func TestCorrelationMatrix(t *testing.T) {
	e := buildEngine([]models.MobilityMetricRow{
		metricRow("100", "2025-W15", 2, 8),
		metricRow("200", "2025-W15", 5, 5),
		metricRow("300", "2025-W15", 9, 1),
	}, nil, nil)

	w, _ := e.ResolveWindow(0, 0)
	matrix := e.Correlation(w)

	if matrix.InsufficientData {
		t.Fatal("unexpected insufficient-data signal")
	}
	if len(matrix.Columns) != len(CorrelationColumns) {
		t.Fatalf("columns = %v, want %v", matrix.Columns, CorrelationColumns)
	}

	// Diagonal of a varying column is exactly 1.
	for i := range matrix.Columns {
		if matrix.Counts[i][i] != 3 {
			t.Errorf("diagonal count = %d, want 3", matrix.Counts[i][i])
		}
	}
	if !almostEqual(matrix.Values[0][0], 1.0) {
		t.Errorf("diagonal correlation = %v, want 1.0", matrix.Values[0][0])
	}

	// percent_sustainable and walking rise together in this fixture.
	if matrix.Values[0][2] <= 0.9 {
		t.Errorf("percent vs walking correlation = %v, want strongly positive", matrix.Values[0][2])
	}
}

func TestCorrelationIncludesSurveyColumns(t *testing.T) {
	surveys := []models.SurveyResponse{
		{UserID: "100", PeriodKey: "2025-W15", Answers: map[string]string{"mood": "2"}},
		{UserID: "200", PeriodKey: "2025-W15", Answers: map[string]string{"mood": "4"}},
	}
	e := buildEngine([]models.MobilityMetricRow{
		metricRow("100", "2025-W15", 2, 8),
		metricRow("200", "2025-W15", 5, 5),
	}, surveys, nil)

	w, _ := e.ResolveWindow(0, 0)
	matrix := e.Correlation(w)

	want := len(CorrelationColumns) + len(SurveyCorrelationColumns)
	if len(matrix.Columns) != want {
		t.Errorf("columns = %d, want %d with survey joined", len(matrix.Columns), want)
	}
}
