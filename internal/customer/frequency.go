// Package customer builds the per-customer analysis tables: purchase
// frequency, inter-purchase intervals, RFM segmentation, and the executive
// behavior summary.
//
// All tables are keyed by customer id and sorted ascending by id, so every
// run writes byte-identical output for identical input.
package customer

import (
	"sort"

	"github.com/LeonHartK/datasetExploration/internal/stats"
	"github.com/LeonHartK/datasetExploration/internal/txlog"
)

// FrequencyRow summarizes one customer's purchase volume.
type FrequencyRow struct {
	CustomerID                int64
	TransactionCount          int
	TotalProducts             int
	WithProducts              int // transactions carrying at least one product
	AvgProductsPerTransaction float64
	PctWithProducts           float64
}

// Frequency aggregates recs per customer.
func Frequency(recs []txlog.Record) []FrequencyRow {
	byID := make(map[int64]*FrequencyRow)
	for _, r := range recs {
		row := byID[r.CustomerID]
		if row == nil {
			row = &FrequencyRow{CustomerID: r.CustomerID}
			byID[r.CustomerID] = row
		}
		row.TransactionCount++
		row.TotalProducts += r.ProductCount
		if r.HasProducts {
			row.WithProducts++
		}
	}

	out := make([]FrequencyRow, 0, len(byID))
	for _, row := range byID {
		row.AvgProductsPerTransaction = stats.SafeDiv(float64(row.TotalProducts), float64(row.TransactionCount), 0)
		row.PctWithProducts = stats.SafeDiv(float64(row.WithProducts)*100, float64(row.TransactionCount), 0)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out
}
