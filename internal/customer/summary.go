package customer

import (
	"sort"

	"github.com/LeonHartK/datasetExploration/internal/stats"
)

// LabelCount is one row of a label distribution, with its share of the base
// population in percent.
type LabelCount struct {
	Label string
	Count int
	Pct   float64
}

// BehaviorSummary is the executive roll-up over the customer tables.
type BehaviorSummary struct {
	Customers                  int
	OneTime                    int
	Repeat                     int
	RepeatPct                  float64
	AvgTransactionsPerCustomer float64
	AvgProductsPerCustomer     float64

	Segments []LabelCount // distribution over segment labels
	Bands    []LabelCount // distribution over purchase-rhythm bands
}

// Summarize condenses the frequency, segmentation and interval tables into
// one summary. Distributions are sorted descending by count with the label as
// tie break. Percentage bases differ: segments over all customers, bands over
// repeat customers only, since one-timers have no intervals.
func Summarize(freq []FrequencyRow, profiles []Profile, intervals []IntervalRow) BehaviorSummary {
	out := BehaviorSummary{Customers: len(freq)}

	var totalTx, totalProducts int
	for _, f := range freq {
		totalTx += f.TransactionCount
		totalProducts += f.TotalProducts
		if f.TransactionCount == 1 {
			out.OneTime++
		} else {
			out.Repeat++
		}
	}
	out.RepeatPct = stats.SafeDiv(float64(out.Repeat)*100, float64(out.Customers), 0)
	out.AvgTransactionsPerCustomer = stats.SafeDiv(float64(totalTx), float64(out.Customers), 0)
	out.AvgProductsPerCustomer = stats.SafeDiv(float64(totalProducts), float64(out.Customers), 0)

	segCounts := make(map[string]int)
	for _, p := range profiles {
		segCounts[p.Segment]++
	}
	out.Segments = distribution(segCounts, len(profiles))

	bandCounts := make(map[string]int)
	for _, iv := range intervals {
		bandCounts[iv.Band]++
	}
	out.Bands = distribution(bandCounts, len(intervals))

	return out
}

func distribution(counts map[string]int, base int) []LabelCount {
	out := make([]LabelCount, 0, len(counts))
	for label, c := range counts {
		out = append(out, LabelCount{
			Label: label,
			Count: c,
			Pct:   stats.SafeDiv(float64(c)*100, float64(base), 0),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
