// Package basket computes the market-basket side of the analysis: descriptive
// statistics over basket sizes, frequent itemset mining, association rules,
// and pairwise co-occurrence.
//
// Every function here is pure: records in, a freshly built table out. The
// mining path is the only part with superlinear cost and is bounded by the
// anti-monotone pruning described on Mine.
package basket

import (
	"math"
	"sort"

	"github.com/LeonHartK/datasetExploration/internal/stats"
	"github.com/LeonHartK/datasetExploration/internal/txlog"
)

// TransactionStats describes the distribution of products-per-transaction,
// restricted to transactions that carry at least one product.
//
// On an empty in-scope set the counts are zero and the moments are NaN; the
// caller renders NaN as an empty cell rather than failing the run.
type TransactionStats struct {
	Count           int     // all records seen
	WithProducts    int     // records with at least one product
	PctWithProducts float64 // WithProducts / Count * 100

	Mean   float64
	Median float64
	Mode   float64
	Std    float64
	Min    float64
	Max    float64
	Q1     float64
	Q3     float64
	IQR    float64

	LowerBound   float64 // Q1 - 1.5*IQR
	UpperBound   float64 // Q3 + 1.5*IQR
	OutlierCount int
	OutlierPct   float64
}

// PerTransactionStats computes the basket-size distribution over recs.
func PerTransactionStats(recs []txlog.Record) TransactionStats {
	out := TransactionStats{Count: len(recs)}

	var sizes []float64
	for _, r := range recs {
		if r.HasProducts {
			sizes = append(sizes, float64(r.ProductCount))
		}
	}
	out.WithProducts = len(sizes)
	out.PctWithProducts = stats.SafeDiv(float64(out.WithProducts)*100, float64(out.Count), 0)

	if len(sizes) == 0 {
		nan := math.NaN()
		out.Mean, out.Median, out.Mode, out.Std = nan, nan, nan, nan
		out.Min, out.Max, out.Q1, out.Q3, out.IQR = nan, nan, nan, nan, nan
		out.LowerBound, out.UpperBound = nan, nan
		return out
	}

	sort.Float64s(sizes)
	out.Mean = stats.Mean(sizes)
	out.Median = stats.Median(sizes)
	out.Mode = stats.Mode(sizes)
	out.Std = stats.Std(sizes)
	out.Min = sizes[0]
	out.Max = sizes[len(sizes)-1]
	out.Q1 = stats.Quantile(sizes, 0.25)
	out.Q3 = stats.Quantile(sizes, 0.75)
	out.IQR = out.Q3 - out.Q1
	out.LowerBound = out.Q1 - stats.OutlierThreshold*out.IQR
	out.UpperBound = out.Q3 + stats.OutlierThreshold*out.IQR
	out.OutlierCount = stats.CountOutside(sizes, out.LowerBound, out.UpperBound)
	out.OutlierPct = stats.SafeDiv(float64(out.OutlierCount)*100, float64(out.WithProducts), 0)
	return out
}

// TypeStats summarizes basket sizes for one transaction type.
type TypeStats struct {
	Type            int64
	Total           int
	WithProducts    int
	PctWithProducts float64
	Mean            float64
	Median          float64
	Std             float64
	Min             float64
	Max             float64
}

// ByType groups recs by transaction type and summarizes each group's basket
// sizes. The result is sorted ascending by type so output tables are stable
// across runs.
//
// Unlike PerTransactionStats the moments here are computed over ALL records of
// the type, zero-product records included; the with-products share is reported
// separately.
func ByType(recs []txlog.Record) []TypeStats {
	groups := make(map[int64][]float64)
	withProducts := make(map[int64]int)
	for _, r := range recs {
		groups[r.Type] = append(groups[r.Type], float64(r.ProductCount))
		if r.HasProducts {
			withProducts[r.Type]++
		}
	}

	types := make([]int64, 0, len(groups))
	for t := range groups {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	out := make([]TypeStats, 0, len(types))
	for _, t := range types {
		sizes := groups[t]
		sort.Float64s(sizes)
		out = append(out, TypeStats{
			Type:            t,
			Total:           len(sizes),
			WithProducts:    withProducts[t],
			PctWithProducts: stats.SafeDiv(float64(withProducts[t])*100, float64(len(sizes)), 0),
			Mean:            stats.Mean(sizes),
			Median:          stats.Median(sizes),
			Std:             stats.Std(sizes),
			Min:             sizes[0],
			Max:             sizes[len(sizes)-1],
		})
	}
	return out
}
