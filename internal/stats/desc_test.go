package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestQuantile verifies linear-interpolation quantiles against known values.
//
// The interpolation must match the reference tables: for [1,2,3,4] the first
// quartile is 1.75, not 1.5 (nearest-rank) or 1.25 (exclusive).
func TestQuantile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		xs   []float64
		q    float64
		want float64
	}{
		{"median odd", []float64{3, 1, 2}, 0.5, 2},
		{"median even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"q1 interpolated", []float64{1, 2, 3, 4}, 0.25, 1.75},
		{"q3 interpolated", []float64{1, 2, 3, 4}, 0.75, 3.25},
		{"single element", []float64{7}, 0.25, 7},
		{"zeroth", []float64{5, 1, 3}, 0, 1},
		{"full", []float64{5, 1, 3}, 1, 5},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Quantile(tt.xs, tt.q); !almostEqual(got, tt.want) {
				t.Fatalf("Quantile(%v, %v) = %v, want %v", tt.xs, tt.q, got, tt.want)
			}
		})
	}
}

// TestQuantileEmpty verifies NaN (not a panic) for empty input.
func TestQuantileEmpty(t *testing.T) {
	t.Parallel()

	if got := Quantile(nil, 0.5); !math.IsNaN(got) {
		t.Fatalf("Quantile(nil) = %v, want NaN", got)
	}
}

// TestStdSample verifies the sample (ddof=1) convention.
func TestStdSample(t *testing.T) {
	t.Parallel()

	// Sample variance of [2,4,4,4,5,5,7,9] is 32/7.
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got, want := Variance(xs), 32.0/7.0; !almostEqual(got, want) {
		t.Fatalf("Variance = %v, want %v", got, want)
	}
	if got, want := Std(xs), math.Sqrt(32.0/7.0); !almostEqual(got, want) {
		t.Fatalf("Std = %v, want %v", got, want)
	}
	if got := Std([]float64{5}); !math.IsNaN(got) {
		t.Fatalf("Std of single value = %v, want NaN", got)
	}
}

// TestMode verifies the smallest-value tie break, which keeps output tables
// deterministic across runs.
func TestMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{"clear winner", []float64{1, 2, 2, 3}, 2},
		{"tie picks smallest", []float64{3, 3, 1, 1, 2}, 1},
		{"all distinct picks smallest", []float64{9, 4, 7}, 4},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Mode(tt.xs); got != tt.want {
				t.Fatalf("Mode(%v) = %v, want %v", tt.xs, got, tt.want)
			}
		})
	}
}

// TestTukeyFences verifies the IQR outlier rule, including the IQR=0 case:
// a constant column must produce bounds equal to the constant and zero
// outliers.
func TestTukeyFences(t *testing.T) {
	t.Parallel()

	lower, upper := TukeyFences([]float64{1, 2, 3, 4, 100}, OutlierThreshold)
	if CountOutside([]float64{1, 2, 3, 4, 100}, lower, upper) != 1 {
		t.Fatalf("expected exactly one outlier outside [%v, %v]", lower, upper)
	}

	lower, upper = TukeyFences([]float64{5, 5, 5, 5}, OutlierThreshold)
	if lower != 5 || upper != 5 {
		t.Fatalf("constant input bounds = [%v, %v], want [5, 5]", lower, upper)
	}
	if n := CountOutside([]float64{5, 5, 5, 5}, lower, upper); n != 0 {
		t.Fatalf("constant input outliers = %d, want 0", n)
	}
}

// TestSafeDiv verifies the zero-denominator default.
func TestSafeDiv(t *testing.T) {
	t.Parallel()

	if got := SafeDiv(10, 4, 0); !almostEqual(got, 2.5) {
		t.Fatalf("SafeDiv(10,4) = %v, want 2.5", got)
	}
	if got := SafeDiv(10, 0, -1); got != -1 {
		t.Fatalf("SafeDiv(10,0) = %v, want -1", got)
	}
}
