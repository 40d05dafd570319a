// Package stats provides the descriptive-statistics primitives shared by the
// analysis packages.
//
// Conventions:
//   - Standard deviation and variance are sample statistics (ddof=1).
//   - Quantiles use linear interpolation between order statistics, matching
//     the behavior of the reference report tables this engine reproduces.
//   - Undefined results (empty input, single-element std, ...) are NaN, never
//     a panic. Callers render NaN as an empty cell.
package stats

import (
	"math"
	"sort"
)

// OutlierThreshold is the Tukey fence multiplier applied to the IQR.
const OutlierThreshold = 1.5

// Mean returns the arithmetic mean, or NaN for empty input.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Variance returns the sample variance (ddof=1). NaN for fewer than 2 values.
func Variance(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	m := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return ss / float64(len(xs)-1)
}

// Std returns the sample standard deviation (ddof=1).
func Std(xs []float64) float64 {
	v := Variance(xs)
	if math.IsNaN(v) {
		return math.NaN()
	}
	return math.Sqrt(v)
}

// Quantile returns the q-th quantile (0 ≤ q ≤ 1) using linear interpolation
// between closest ranks. Returns NaN for empty input.
//
// The input does not need to be sorted; a sorted copy is taken internally.
func Quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 || q < 0 || q > 1 {
		return math.NaN()
	}
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	return quantileSorted(cp, q)
}

// QuantilesSorted computes several quantiles over one pre-sorted slice.
// More efficient than repeated Quantile calls on the same data.
func QuantilesSorted(sorted []float64, qs ...float64) []float64 {
	out := make([]float64, len(qs))
	for i, q := range qs {
		if len(sorted) == 0 || q < 0 || q > 1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = quantileSorted(sorted, q)
	}
	return out
}

func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Median returns the 0.5 quantile.
func Median(xs []float64) float64 {
	return Quantile(xs, 0.5)
}

// Mode returns the most frequent value. Ties break toward the smallest value
// so repeated runs produce identical tables. NaN for empty input.
func Mode(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	counts := make(map[float64]int, len(xs))
	for _, x := range xs {
		counts[x]++
	}
	best := math.NaN()
	bestN := 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best = v
			bestN = n
		}
	}
	return best
}

// Min returns the smallest value, or NaN for empty input.
func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// Max returns the largest value, or NaN for empty input.
func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// Sum returns the sum of all values (0 for empty input).
func Sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

// TukeyFences returns the classic IQR outlier bounds
// [Q1 - t*IQR, Q3 + t*IQR]. NaN bounds for empty input.
func TukeyFences(xs []float64, threshold float64) (lower, upper float64) {
	if len(xs) == 0 {
		return math.NaN(), math.NaN()
	}
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	q := QuantilesSorted(cp, 0.25, 0.75)
	iqr := q[1] - q[0]
	return q[0] - threshold*iqr, q[1] + threshold*iqr
}

// CountOutside counts values strictly outside [lower, upper].
func CountOutside(xs []float64, lower, upper float64) int {
	n := 0
	for _, x := range xs {
		if x < lower || x > upper {
			n++
		}
	}
	return n
}

// SafeDiv divides a by b, returning def when b is zero.
func SafeDiv(a, b, def float64) float64 {
	if b == 0 {
		return def
	}
	return a / b
}

// DistinctCount returns the number of distinct values.
func DistinctCount(xs []float64) int {
	set := make(map[float64]struct{}, len(xs))
	for _, x := range xs {
		set[x] = struct{}{}
	}
	return len(set)
}
