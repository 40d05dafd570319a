package profile

import (
	"math"
	"testing"
)

// TestClassify verifies the three-way column classification.
func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		column string
		values []float64
		want   Class
	}{
		{"single distinct value", "amount", []float64{5, 5, 5}, ClassConstant},
		{"empty column", "amount", nil, ClassConstant},
		{"id keyword with distinct values", "customer_id", []float64{10, 42, 7, 99, 3}, ClassIdentifier},
		{"sku keyword", "product_sku", []float64{101, 205, 303, 417, 520}, ClassIdentifier},
		{"sequential without keyword", "row", []float64{1, 2, 3, 4, 5, 6}, ClassIdentifier},
		{"distinct but non-sequential, no keyword", "score", []float64{1.5, 9.25, 100, 42.5, 7}, ClassVariable},
		{"repeated measurements", "quantity", []float64{1, 2, 2, 3, 3, 3, 4}, ClassVariable},
		{"id keyword but low distinct ratio", "type_id", []float64{1, 1, 1, 2, 2, 2, 3, 3}, ClassVariable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.column, tt.values); got != tt.want {
				t.Fatalf("Classify(%q, %v) = %s, want %s", tt.column, tt.values, got, tt.want)
			}
		})
	}
}

// TestSequentialValues verifies the auto-increment signature: integral
// values whose range matches their distinct count, with fractional values
// disqualifying.
func TestSequentialValues(t *testing.T) {
	t.Parallel()

	if !sequentialValues([]float64{3, 4, 5, 6, 7, 8}, 6) {
		t.Fatal("dense integer run not recognized as sequential")
	}
	if sequentialValues([]float64{1, 100, 200, 300, 400}, 5) {
		t.Fatal("sparse values recognized as sequential")
	}
	if sequentialValues([]float64{1.5, 2.5, 3.5, 4.5, 5.5}, 5) {
		t.Fatal("fractional values recognized as sequential")
	}
}

// TestProfileNumeric_Variable verifies the full profile including Tukey
// outlier bounds on a Variable column.
func TestProfileNumeric_Variable(t *testing.T) {
	t.Parallel()

	p := ProfileNumeric("quantity", []float64{1, 2, 2, 3, 100})
	if p.Class != ClassVariable {
		t.Fatalf("class = %s, want Variable", p.Class)
	}
	if !p.HasOutlierBounds {
		t.Fatal("Variable column must carry outlier bounds")
	}
	if p.OutlierCount != 1 {
		t.Fatalf("outliers = %d, want 1 (the 100)", p.OutlierCount)
	}
	if p.Min != 1 || p.Max != 100 || p.Mode != 2 {
		t.Fatalf("min/max/mode = %v/%v/%v, want 1/100/2", p.Min, p.Max, p.Mode)
	}
}

// TestProfileNumeric_SkipsOutliers verifies that Constant and Identifier
// columns get no outlier bounds: NaN bounds and a zero count.
func TestProfileNumeric_SkipsOutliers(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		column string
		values []float64
		want   Class
	}{
		{"flag", []float64{1, 1, 1}, ClassConstant},
		{"order_ref", []float64{1, 2, 3, 4, 5}, ClassIdentifier},
	} {
		p := ProfileNumeric(tt.column, tt.values)
		if p.Class != tt.want {
			t.Fatalf("%s class = %s, want %s", tt.column, p.Class, tt.want)
		}
		if p.HasOutlierBounds || p.OutlierCount != 0 {
			t.Fatalf("%s: outlier computation not skipped: %+v", tt.column, p)
		}
		if !math.IsNaN(p.LowerBound) || !math.IsNaN(p.UpperBound) {
			t.Fatalf("%s bounds = [%v, %v], want NaN", tt.column, p.LowerBound, p.UpperBound)
		}
	}
}

// TestProfileNumeric_Empty verifies NaN moments for an empty column.
func TestProfileNumeric_Empty(t *testing.T) {
	t.Parallel()

	p := ProfileNumeric("empty", nil)
	if p.Count != 0 || !math.IsNaN(p.Mean) || !math.IsNaN(p.Median) {
		t.Fatalf("empty profile = %+v, want zero count with NaN moments", p)
	}
}

// TestProfileCategorical verifies null counting, uniqueness and the ranked
// top values.
func TestProfileCategorical(t *testing.T) {
	t.Parallel()

	p := ProfileCategorical("city", []string{"a", "b", "a", "", "  ", "c", "a", "b"}, 2)
	if p.Count != 6 || p.NullCount != 2 || p.Unique != 3 {
		t.Fatalf("profile = %+v, want 6 values, 2 nulls, 3 unique", p)
	}
	if len(p.Top) != 2 || p.Top[0].Value != "a" || p.Top[0].Count != 3 {
		t.Fatalf("top = %+v, want a x3 first", p.Top)
	}
	if math.Abs(p.Top[0].Pct-50) > 1e-9 {
		t.Fatalf("top pct = %v, want 50", p.Top[0].Pct)
	}
}

// TestQuality verifies shape, per-column nulls (short rows pad as null) and
// exact-duplicate detection.
func TestQuality(t *testing.T) {
	t.Parallel()

	headers := []string{"a", "b", "c"}
	rows := [][]string{
		{"1", "x", "y"},
		{"1", "x", "y"}, // duplicate
		{"2", "", "y"},
		{"3", "x"}, // short row: c counts as null
	}
	r := Quality(headers, rows)

	if r.Rows != 4 || r.Columns != 3 || r.DuplicateRows != 1 {
		t.Fatalf("report = %+v, want 4 rows, 3 cols, 1 duplicate", r)
	}
	if r.Nulls[1].Nulls != 1 || r.Nulls[2].Nulls != 1 {
		t.Fatalf("nulls = %+v, want 1 in b and 1 in c", r.Nulls)
	}
	if math.Abs(r.Nulls[2].Pct-25) > 1e-9 {
		t.Fatalf("c null pct = %v, want 25", r.Nulls[2].Pct)
	}
}

// TestExtractNumeric verifies numeric parsing with null skipping and the
// non-numeric rejection.
func TestExtractNumeric(t *testing.T) {
	t.Parallel()

	xs, nulls, ok := ExtractNumeric([]string{"1", "", "2.5", " "})
	if !ok || nulls != 2 || len(xs) != 2 || xs[1] != 2.5 {
		t.Fatalf("got %v nulls=%d ok=%v, want [1 2.5] nulls=2 ok", xs, nulls, ok)
	}

	if _, _, ok := ExtractNumeric([]string{"1", "oops"}); ok {
		t.Fatal("non-numeric column reported ok")
	}
}
