package models

import "encoding/json"

// NullFloat is a float64 that may be missing. Missing values are excluded
// from means, sums and correlations, never coerced to zero. Follows the
// database/sql Null* convention.
type NullFloat struct {
	Value float64
	Valid bool
}

// SomeFloat returns a present NullFloat.
func SomeFloat(v float64) NullFloat {
	return NullFloat{Value: v, Valid: true}
}

// MarshalJSON encodes missing values as null.
func (f NullFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON decodes null as missing.
func (f *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = NullFloat{}
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

// FusedRow is one (user, period) record after joining mobility metrics with
// user metadata and the survey/feedback numeric projections.
type FusedRow struct {
	MobilityMetricRow

	Group string `json:"group"`

	// Survey projections, missing when the user has no survey row for the
	// period or no answer coerced to a numeric value.
	WellBeing  NullFloat `json:"well_being"`
	HabitCount NullFloat `json:"habit_count"`

	// Feedback projection, missing on the same terms.
	Satisfaction NullFloat `json:"satisfaction"`
}

// Metric returns the named numeric column of the row. Mobility metrics are
// always present; survey/feedback projections may be missing.
func (r *FusedRow) Metric(name string) NullFloat {
	switch name {
	case MetricPercentSustainable:
		return SomeFloat(r.PercentSustainable)
	case MetricTotal:
		return SomeFloat(r.TotalKm)
	case MetricSustainable:
		return SomeFloat(r.SustainableKm)
	case MetricWellBeing:
		return r.WellBeing
	case MetricHabitCount:
		return r.HabitCount
	case MetricSatisfaction:
		return r.Satisfaction
	}
	if kind := ActivityKind(name); kind.IsClassified() {
		return SomeFloat(r.DistanceByKind[kind])
	}
	return NullFloat{}
}

// Metric column names accepted by FusedRow.Metric and the query engine.
const (
	MetricPercentSustainable = "percent_sustainable"
	MetricTotal              = "total"
	MetricSustainable        = "sustainable"
	MetricWellBeing          = "well_being"
	MetricHabitCount         = "habit_count"
	MetricSatisfaction       = "satisfaction"
)
