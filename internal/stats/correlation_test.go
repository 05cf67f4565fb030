package stats

import (
	"math"
	"testing"
)

func TestPearsonCorrelation(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{"perfect positive", []float64{1, 2, 3, 4}, []float64{2, 4, 6, 8}, 1},
		{"perfect negative", []float64{1, 2, 3, 4}, []float64{8, 6, 4, 2}, -1},
		{"constant column", []float64{1, 2, 3}, []float64{5, 5, 5}, 0},
		{"too short", []float64{1}, []float64{2}, 0},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PearsonCorrelation(tt.x, tt.y)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PearsonCorrelation = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpearmanCorrelation(t *testing.T) {
	// Monotone but non-linear relation still ranks to 1.
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 4, 9, 16, 25}
	if got := SpearmanCorrelation(x, y); math.Abs(got-1) > 1e-9 {
		t.Errorf("SpearmanCorrelation = %v, want 1", got)
	}
}

func TestMeanAndSum(t *testing.T) {
	values := []float64{1.5, 2.5, 3.0}
	if got := Mean(values); math.Abs(got-7.0/3.0) > 1e-9 {
		t.Errorf("Mean = %v", got)
	}
	if got := Sum(values); got != 7.0 {
		t.Errorf("Sum = %v, want 7.0", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
}

func TestVarianceAndStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := Variance(values); math.Abs(got-32.0/7.0) > 1e-9 {
		t.Errorf("Variance = %v, want %v", got, 32.0/7.0)
	}
	if got := StdDev([]float64{3}); got != 0 {
		t.Errorf("StdDev of one value = %v, want 0", got)
	}
}

func TestMedian(t *testing.T) {
	if got := Median([]float64{3, 1, 2}); got != 2 {
		t.Errorf("odd Median = %v, want 2", got)
	}
	if got := Median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("even Median = %v, want 2.5", got)
	}
}
