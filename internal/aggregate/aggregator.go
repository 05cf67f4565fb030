// Package aggregate folds activity segments into per-period mobility
// buckets and derives sustainability metrics from completed buckets.
package aggregate

import (
	"sort"
	"time"

	"github.com/ecomove/mobility-backend-go/internal/models"
	"github.com/ecomove/mobility-backend-go/internal/period"
)

// newBucket creates a bucket with all six kind accumulators at zero.
// Week bounds are fixed from the first segment mapping to the key and are
// never recomputed: all segments in a period share identical bounds.
func newBucket(seg models.ActivitySegment, granularity models.Granularity, key string) *models.MobilityBucket {
	bucket := &models.MobilityBucket{
		UserID:         seg.UserID,
		PeriodKey:      key,
		DistanceByKind: make(map[models.ActivityKind]float64, len(models.AllKinds)),
	}
	for _, kind := range models.AllKinds {
		bucket.DistanceByKind[kind] = 0
	}
	if granularity == models.GranularityWeek {
		bucket.PeriodStart, bucket.PeriodEnd = period.WeekBounds(seg.StartTime)
	} else {
		t := seg.StartTime
		bucket.PeriodStart = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	return bucket
}

// Fold consumes one user's ordered segment sequence and accumulates it
// into buckets keyed by period. Accumulation is commutative, so the final
// sums are order-independent; bucket creation uses the first-seen segment
// per key as an explicit tie-break for the period bounds. Segments whose
// kind is unclassified are dropped here.
func Fold(segments []models.ActivitySegment, granularity models.Granularity) map[string]*models.MobilityBucket {
	buckets := make(map[string]*models.MobilityBucket)

	for _, seg := range segments {
		key := period.Key(granularity, seg.StartTime)

		bucket, ok := buckets[key]
		if !ok {
			bucket = newBucket(seg, granularity, key)
			buckets[key] = bucket
		}

		if seg.Kind.IsClassified() {
			bucket.DistanceByKind[seg.Kind] += seg.DistanceKm
		}
	}

	return buckets
}

// SortedKeys returns the bucket keys in ascending period order. Both day
// keys (YYYY-MM-DD) and week keys (YYYY-Www) sort chronologically as
// strings.
func SortedKeys(buckets map[string]*models.MobilityBucket) []string {
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
