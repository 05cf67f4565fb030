package aggregate

import (
	"math"
	"testing"

	"github.com/ecomove/mobility-backend-go/internal/models"
)

func bucketWith(distances map[models.ActivityKind]float64) *models.MobilityBucket {
	bucket := &models.MobilityBucket{
		UserID:         "u1",
		PeriodKey:      "2025-W15",
		DistanceByKind: make(map[models.ActivityKind]float64, len(models.AllKinds)),
	}
	for _, kind := range models.AllKinds {
		bucket.DistanceByKind[kind] = distances[kind]
	}
	return bucket
}

func TestScorePassengerVehicleOnly(t *testing.T) {
	row := Score(bucketWith(map[models.ActivityKind]float64{
		models.KindPassengerVehicle: 10.0,
	}))

	if row.TotalKm != 10.0 {
		t.Errorf("total = %v, want 10.0", row.TotalKm)
	}
	if row.SustainableKm != 0.0 {
		t.Errorf("sustainable = %v, want 0.0", row.SustainableKm)
	}
	if row.PercentSustainable != 0.0 {
		t.Errorf("percent = %v, want 0.0", row.PercentSustainable)
	}
}

func TestScoreZeroTotalGuardsDivision(t *testing.T) {
	row := Score(bucketWith(nil))
	if row.TotalKm != 0 || row.SustainableKm != 0 || row.PercentSustainable != 0 {
		t.Errorf("zero bucket scored %v/%v/%v, want all zero", row.TotalKm, row.SustainableKm, row.PercentSustainable)
	}
}

func TestScoreRounding(t *testing.T) {
	row := Score(bucketWith(map[models.ActivityKind]float64{
		models.KindWalking:          1.23456,
		models.KindPassengerVehicle: 2.34567,
	}))

	if row.TotalKm != 3.58 {
		t.Errorf("total = %v, want 3.58 (3 decimals)", row.TotalKm)
	}
	if row.SustainableKm != 1.235 {
		t.Errorf("sustainable = %v, want 1.235 (3 decimals)", row.SustainableKm)
	}
	want := math.Round(1.23456/3.58023*100*100) / 100
	if row.PercentSustainable != want {
		t.Errorf("percent = %v, want %v (2 decimals)", row.PercentSustainable, want)
	}
}

func TestScoreInvariants(t *testing.T) {
	row := Score(bucketWith(map[models.ActivityKind]float64{
		models.KindWalking:          4.2,
		models.KindBus:              1.1,
		models.KindTrain:            20.0,
		models.KindPassengerVehicle: 7.5,
		models.KindRunning:          3.0,
		models.KindCycling:          9.9,
	}))

	var sum float64
	for _, kind := range models.AllKinds {
		sum += row.DistanceByKind[kind]
	}
	if math.Abs(row.TotalKm-sum) > 1e-9 {
		t.Errorf("total %v != sum of kinds %v", row.TotalKm, sum)
	}
	if math.Abs(row.SustainableKm-(row.TotalKm-row.DistanceByKind[models.KindPassengerVehicle])) > 1e-9 {
		t.Errorf("sustainable %v != total - passenger vehicle", row.SustainableKm)
	}
	if row.PercentSustainable < 0 || row.PercentSustainable > 100 {
		t.Errorf("percent %v outside [0, 100]", row.PercentSustainable)
	}
}
