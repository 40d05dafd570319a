package basket

import (
	"sort"

	"github.com/LeonHartK/datasetExploration/internal/stats"
	"github.com/LeonHartK/datasetExploration/internal/txlog"
)

// ProductFreq is one row of the product frequency table.
type ProductFreq struct {
	Product       string
	Count         int
	Pct           float64 // share of all product mentions, in percent
	CumulativePct float64 // running total of Pct down the ranked table
}

// TopProducts ranks products by mention count across all records. Duplicate
// mentions within a transaction each count; this table measures volume, not
// basket membership. topN <= 0 returns the full ranking.
//
// Ordering is descending by count with product id as the tie break, and the
// cumulative percentage is accumulated over the full ranking before any
// truncation, so a truncated table still reads as "top N of the whole".
func TopProducts(recs []txlog.Record, topN int) []ProductFreq {
	counts := make(map[string]int)
	total := 0
	for _, r := range recs {
		for _, p := range r.Products {
			counts[p]++
			total++
		}
	}

	out := make([]ProductFreq, 0, len(counts))
	for p, c := range counts {
		out = append(out, ProductFreq{Product: p, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Product < out[j].Product
	})

	cum := 0.0
	for i := range out {
		out[i].Pct = stats.SafeDiv(float64(out[i].Count)*100, float64(total), 0)
		cum += out[i].Pct
		out[i].CumulativePct = cum
	}

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Baskets extracts the distinct-product basket of every record that has
// products. Records without products contribute nothing; the miner and the
// co-occurrence counter both operate on this view.
func Baskets(recs []txlog.Record) [][]string {
	out := make([][]string, 0, len(recs))
	for _, r := range recs {
		if b := r.Basket(); len(b) > 0 {
			out = append(out, b)
		}
	}
	return out
}
