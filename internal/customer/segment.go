package customer

import (
	"errors"
	"sort"

	"github.com/LeonHartK/datasetExploration/internal/stats"
	"github.com/LeonHartK/datasetExploration/internal/txlog"
)

// ErrEmptyInput is returned when segmentation is asked for with no records:
// recency is measured against the dataset's max date, which does not exist.
var ErrEmptyInput = errors.New("customer: no records to segment")

// Segment labels, from best to worst standing.
const (
	SegmentChampions      = "Champions"
	SegmentAtRisk         = "At risk"
	SegmentLoyal          = "Loyal customers"
	SegmentPotential      = "Potential customers"
	SegmentNeedsAttention = "Needs attention"
	SegmentPromising      = "Promising"
)

// Profile is one customer's RFM profile and segment.
type Profile struct {
	CustomerID                int64
	TransactionCount          int
	TotalProducts             int
	WithProducts              int
	AvgProductsPerTransaction float64
	RecencyDays               int

	RecencyScore   int // 1..4, inverted: fewer days since last purchase scores higher
	FrequencyScore int // 1..4 over transaction count
	MonetaryScore  int // 1..4 over total products
	RFMScore       int // sum of the three, 3..12
	Segment        string
}

// Segment scores every customer in freq on recency, frequency and monetary
// quartiles and assigns a segment label. recs supplies the transaction dates
// for recency; freq is the table from Frequency over the same records.
//
// Each dimension is binned independently by the quantile ladder: quartiles
// first, terciles when the distribution has too many duplicates to form four
// bins, and a constant midpoint score of 2 when even three bins collapse.
// The result is sorted ascending by customer id.
func Segment(recs []txlog.Record, freq []FrequencyRow) ([]Profile, error) {
	if len(recs) == 0 || len(freq) == 0 {
		return nil, ErrEmptyInput
	}

	lastSeen := make(map[int64]int64) // unix seconds of latest transaction
	var maxTs int64
	for _, r := range recs {
		ts := r.Date.Unix()
		if ts > lastSeen[r.CustomerID] {
			lastSeen[r.CustomerID] = ts
		}
		if ts > maxTs {
			maxTs = ts
		}
	}

	profiles := make([]Profile, len(freq))
	recency := make([]float64, len(freq))
	frequency := make([]float64, len(freq))
	monetary := make([]float64, len(freq))
	for i, f := range freq {
		days := int((maxTs - lastSeen[f.CustomerID]) / 86400)
		profiles[i] = Profile{
			CustomerID:                f.CustomerID,
			TransactionCount:          f.TransactionCount,
			TotalProducts:             f.TotalProducts,
			WithProducts:              f.WithProducts,
			AvgProductsPerTransaction: f.AvgProductsPerTransaction,
			RecencyDays:               days,
		}
		recency[i] = float64(days)
		frequency[i] = float64(f.TransactionCount)
		monetary[i] = float64(f.TotalProducts)
	}

	rScores := quantileScores(recency, true)
	fScores := quantileScores(frequency, false)
	mScores := quantileScores(monetary, false)

	for i := range profiles {
		p := &profiles[i]
		p.RecencyScore = rScores[i]
		p.FrequencyScore = fScores[i]
		p.MonetaryScore = mScores[i]
		p.RFMScore = p.RecencyScore + p.FrequencyScore + p.MonetaryScore
		p.Segment = classify(p.RFMScore, p.RecencyScore, p.FrequencyScore, p.MonetaryScore)
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].CustomerID < profiles[j].CustomerID })
	return profiles, nil
}

// classify applies the segment rules in priority order, first match wins.
// "At risk" is checked before "Loyal customers" so that high frequency with
// poor recency reads as churn risk rather than loyalty.
func classify(rfm, r, f, m int) string {
	switch {
	case rfm >= 10 && r >= 3 && f >= 3:
		return SegmentChampions
	case f >= 3 && r <= 2:
		return SegmentAtRisk
	case f >= 3 && m >= 3:
		return SegmentLoyal
	case r >= 3 && f <= 2:
		return SegmentPotential
	case rfm <= 6:
		return SegmentNeedsAttention
	default:
		return SegmentPromising
	}
}

// quantileScores bins values into quantile ranks via the degradation ladder:
// 4 bins, then 3, then a constant score of 2. invert flips the labels so that
// the lowest bin gets the highest score (recency).
func quantileScores(values []float64, invert bool) []int {
	for _, q := range []int{4, 3} {
		if scores, ok := binByQuantiles(values, q, invert); ok {
			return scores
		}
	}
	scores := make([]int, len(values))
	for i := range scores {
		scores[i] = 2
	}
	return scores
}

// binByQuantiles cuts values into q rank-based bins with right-closed
// interval edges at the linear-interpolation quantiles. It fails (ok=false)
// when duplicate-heavy data collapses the edges below q+1 distinct values,
// which is the signal to degrade to fewer bins.
func binByQuantiles(values []float64, q int, invert bool) ([]int, bool) {
	if len(values) == 0 {
		return nil, true
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	qs := make([]float64, q+1)
	for i := range qs {
		qs[i] = float64(i) / float64(q)
	}
	edges := make([]float64, 0, q+1)
	for _, e := range stats.QuantilesSorted(sorted, qs...) {
		if len(edges) > 0 && e == edges[len(edges)-1] {
			continue
		}
		edges = append(edges, e)
	}
	if len(edges) != q+1 {
		return nil, false
	}

	scores := make([]int, len(values))
	for i, v := range values {
		bin := 0
		for b := 1; b < q; b++ {
			if v > edges[b] {
				bin = b
			}
		}
		if invert {
			scores[i] = q - bin
		} else {
			scores[i] = bin + 1
		}
	}
	return scores, true
}
