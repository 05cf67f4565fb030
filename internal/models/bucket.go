package models

import "time"

// Granularity selects the period length buckets are keyed by.
type Granularity string

// Granularity constants
const (
	GranularityDay  Granularity = "day"
	GranularityWeek Granularity = "week"
)

// MobilityBucket accumulates per-kind distances for one (user, period).
// Owned by the aggregator while folding; read-only once the fold completes.
type MobilityBucket struct {
	UserID    string `json:"user_id"`
	PeriodKey string `json:"period_key"`

	// Week bounds, zero for day granularity. Fixed from the first segment
	// mapping to this key; all segments in a period share the same bounds.
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end,omitempty"`

	// DistanceByKind holds accumulated km for each of the six classified
	// kinds. Initialized to zero for all kinds at bucket creation.
	DistanceByKind map[ActivityKind]float64 `json:"distance_by_kind"`
}

// MobilityMetricRow is the scored, immutable form of one bucket.
type MobilityMetricRow struct {
	UserID      string    `json:"user_id"`
	PeriodKey   string    `json:"period_key"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end,omitempty"`

	DistanceByKind map[ActivityKind]float64 `json:"distance_by_kind"`

	TotalKm            float64 `json:"total_km"`            // Rounded to 3 decimals
	SustainableKm      float64 `json:"sustainable_km"`      // Rounded to 3 decimals
	PercentSustainable float64 `json:"percent_sustainable"` // Rounded to 2 decimals, 0 when TotalKm is 0
}
