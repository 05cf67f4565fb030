package aggregate

import (
	"math"

	"github.com/ecomove/mobility-backend-go/internal/models"
)

// Score derives the immutable metric row for one completed bucket.
// total is the sum over all six kind accumulators, sustainable excludes the
// passenger vehicle, and the percentage guards the zero-total case.
func Score(bucket *models.MobilityBucket) models.MobilityMetricRow {
	distances := make(map[models.ActivityKind]float64, len(bucket.DistanceByKind))
	var total, sustainable float64
	for _, kind := range models.AllKinds {
		km := bucket.DistanceByKind[kind]
		distances[kind] = km
		total += km
		if kind.IsSustainable() {
			sustainable += km
		}
	}

	percent := 0.0
	if total > 0 {
		percent = sustainable / total * 100
	}

	return models.MobilityMetricRow{
		UserID:             bucket.UserID,
		PeriodKey:          bucket.PeriodKey,
		PeriodStart:        bucket.PeriodStart,
		PeriodEnd:          bucket.PeriodEnd,
		DistanceByKind:     distances,
		TotalKm:            round(total, 3),
		SustainableKm:      round(sustainable, 3),
		PercentSustainable: round(percent, 2),
	}
}

// ScoreAll scores every bucket of one user in ascending period order.
func ScoreAll(buckets map[string]*models.MobilityBucket) []models.MobilityMetricRow {
	rows := make([]models.MobilityMetricRow, 0, len(buckets))
	for _, key := range SortedKeys(buckets) {
		rows = append(rows, Score(buckets[key]))
	}
	return rows
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
