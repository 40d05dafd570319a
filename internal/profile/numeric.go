// Package profile characterizes dataset columns: numeric column
// classification and descriptive profiles, categorical value distributions,
// and a table-level quality report.
package profile

import (
	"math"
	"sort"
	"strings"

	"github.com/LeonHartK/datasetExploration/internal/stats"
)

// Class partitions numeric columns by what their values mean.
type Class string

const (
	// ClassConstant marks a column with a single value: no spread to profile.
	ClassConstant Class = "Constant"
	// ClassIdentifier marks a column whose values are labels in an id space,
	// where moments and outliers carry no meaning.
	ClassIdentifier Class = "Identifier"
	// ClassVariable marks a genuinely quantitative column.
	ClassVariable Class = "Variable"
)

// identifierKeywords are name fragments that mark a column as an id column
// when its values are mostly distinct.
var identifierKeywords = []string{"id", "code", "key", "number", "num", "ref", "sku"}

// Classify decides what kind of numeric column name/values is.
//
// A column is Constant when it has one distinct value (or zero spread),
// Identifier when over 80% of its values are distinct AND either its name
// carries an id keyword or its values look sequential, and Variable
// otherwise. Sequential means all values are integral and the value range
// roughly equals the distinct count (within 20%), the signature of an
// auto-incremented key.
func Classify(name string, values []float64) Class {
	if len(values) == 0 {
		return ClassConstant
	}

	distinct := stats.DistinctCount(values)
	std := stats.Std(values)
	if distinct == 1 || std == 0 {
		return ClassConstant
	}

	distinctRatio := float64(distinct) / float64(len(values))
	if distinctRatio > 0.8 && (nameLooksLikeID(name) || sequentialValues(values, distinct)) {
		return ClassIdentifier
	}
	return ClassVariable
}

func nameLooksLikeID(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range identifierKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func sequentialValues(values []float64, distinct int) bool {
	for _, v := range values {
		if v != math.Trunc(v) {
			return false
		}
	}
	span := stats.Max(values) - stats.Min(values)
	return math.Abs(span-float64(distinct)) < float64(distinct)*0.2
}

// NumericProfile is the descriptive profile of one numeric column.
//
// Outlier bounds exist only for Variable columns; for Constant and Identifier
// columns HasOutlierBounds is false, the bounds are NaN and the count is 0.
type NumericProfile struct {
	Name  string
	Class Class
	Count int

	Mean     float64
	Median   float64
	Mode     float64
	Std      float64
	Variance float64
	Min      float64
	Max      float64
	Q1       float64
	Q3       float64

	HasOutlierBounds bool
	LowerBound       float64
	UpperBound       float64
	OutlierCount     int
}

// ProfileNumeric computes the full profile of one column.
func ProfileNumeric(name string, values []float64) NumericProfile {
	p := NumericProfile{
		Name:       name,
		Class:      Classify(name, values),
		Count:      len(values),
		LowerBound: math.NaN(),
		UpperBound: math.NaN(),
	}

	if len(values) == 0 {
		nan := math.NaN()
		p.Mean, p.Median, p.Mode, p.Std, p.Variance = nan, nan, nan, nan, nan
		p.Min, p.Max, p.Q1, p.Q3 = nan, nan, nan, nan
		return p
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	p.Mean = stats.Mean(sorted)
	p.Mode = stats.Mode(sorted)
	p.Std = stats.Std(sorted)
	p.Variance = stats.Variance(sorted)
	p.Min = sorted[0]
	p.Max = sorted[len(sorted)-1]
	qs := stats.QuantilesSorted(sorted, 0.25, 0.5, 0.75)
	p.Q1, p.Median, p.Q3 = qs[0], qs[1], qs[2]

	if p.Class == ClassVariable {
		p.HasOutlierBounds = true
		p.LowerBound, p.UpperBound = stats.TukeyFences(sorted, stats.OutlierThreshold)
		p.OutlierCount = stats.CountOutside(sorted, p.LowerBound, p.UpperBound)
	}
	return p
}
