package customer

import (
	"sort"

	"github.com/LeonHartK/datasetExploration/internal/stats"
	"github.com/LeonHartK/datasetExploration/internal/txlog"
)

// Purchase-rhythm bands over a customer's mean day gap.
const (
	BandVeryFrequent = "Very frequent" // mean gap under 7 days
	BandFrequent     = "Frequent"      // 7 to 30 days
	BandOccasional   = "Occasional"    // 30 to 90 days
	BandSporadic     = "Sporadic"      // over 90 days
)

// IntervalRow summarizes the day gaps between one customer's chronologically
// consecutive transactions.
type IntervalRow struct {
	CustomerID    int64
	MeanDays      float64
	MedianDays    float64
	MinDays       float64
	MaxDays       float64
	IntervalCount int
	Band          string
}

// TimeBetweenPurchases computes per-customer inter-purchase intervals.
//
// Gaps are whole days, truncated: two transactions 47 hours apart are 1 day
// apart. Customers with a single transaction have no intervals and contribute
// no row. The result is sorted ascending by customer id.
func TimeBetweenPurchases(recs []txlog.Record) []IntervalRow {
	dates := make(map[int64][]int64) // unix seconds per customer
	for _, r := range recs {
		dates[r.CustomerID] = append(dates[r.CustomerID], r.Date.Unix())
	}

	out := make([]IntervalRow, 0, len(dates))
	for id, ts := range dates {
		if len(ts) < 2 {
			continue
		}
		sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })

		gaps := make([]float64, 0, len(ts)-1)
		for i := 1; i < len(ts); i++ {
			gaps = append(gaps, float64((ts[i]-ts[i-1])/86400))
		}
		sort.Float64s(gaps)

		mean := stats.Mean(gaps)
		out = append(out, IntervalRow{
			CustomerID:    id,
			MeanDays:      mean,
			MedianDays:    stats.Median(gaps),
			MinDays:       gaps[0],
			MaxDays:       gaps[len(gaps)-1],
			IntervalCount: len(gaps),
			Band:          gapBand(mean),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out
}

func gapBand(meanDays float64) string {
	switch {
	case meanDays < 7:
		return BandVeryFrequent
	case meanDays < 30:
		return BandFrequent
	case meanDays < 90:
		return BandOccasional
	default:
		return BandSporadic
	}
}
