// Package temporal aggregates transactions over calendar buckets: daily,
// weekly, monthly, day-of-week and hour-of-day tables for the reporting
// layer.
package temporal

import (
	"fmt"
	"sort"

	"github.com/LeonHartK/datasetExploration/internal/stats"
	"github.com/LeonHartK/datasetExploration/internal/txlog"
)

// Bucket is one row of a temporal aggregation table.
type Bucket struct {
	Key              string // bucket label, e.g. "2013-01-05", "2013-W02", "Monday"
	Transactions     int
	Products         int     // product mentions across the bucket's transactions
	Customers        int     // distinct customers
	AvgProductsPerTx float64 // Products / Transactions
}

// Daily buckets by calendar date, ascending.
func Daily(recs []txlog.Record) []Bucket {
	return aggregate(recs, func(r txlog.Record) string {
		return r.Date.Format("2006-01-02")
	}, nil)
}

// Weekly buckets by ISO year and week, ascending.
func Weekly(recs []txlog.Record) []Bucket {
	return aggregate(recs, func(r txlog.Record) string {
		year, week := r.Date.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	}, nil)
}

// Monthly buckets by calendar month, ascending.
func Monthly(recs []txlog.Record) []Bucket {
	return aggregate(recs, func(r txlog.Record) string {
		return r.Date.Format("2006-01")
	}, nil)
}

// weekdayOrder fixes the business calendar ordering, Monday first.
var weekdayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// DayOfWeek buckets by weekday, Monday through Sunday. Weekdays with no
// transactions are omitted rather than zero-filled.
func DayOfWeek(recs []txlog.Record) []Bucket {
	rank := make(map[string]int, len(weekdayOrder))
	for i, d := range weekdayOrder {
		rank[d] = i
	}
	return aggregate(recs, func(r txlog.Record) string {
		return r.Date.Weekday().String()
	}, func(a, b string) bool { return rank[a] < rank[b] })
}

// Hourly buckets by hour of day, "00" through "23", ascending.
func Hourly(recs []txlog.Record) []Bucket {
	return aggregate(recs, func(r txlog.Record) string {
		return r.Date.Format("15")
	}, nil)
}

// aggregate groups recs by key and orders the buckets. A nil less falls back
// to lexicographic key order, which is chronological for all the zero-padded
// calendar formats above.
func aggregate(recs []txlog.Record, key func(txlog.Record) string, less func(a, b string) bool) []Bucket {
	type acc struct {
		transactions int
		products     int
		customers    map[int64]struct{}
	}
	groups := make(map[string]*acc)
	for _, r := range recs {
		k := key(r)
		g := groups[k]
		if g == nil {
			g = &acc{customers: make(map[int64]struct{})}
			groups[k] = g
		}
		g.transactions++
		g.products += r.ProductCount
		g.customers[r.CustomerID] = struct{}{}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	if less == nil {
		sort.Strings(keys)
	} else {
		sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	}

	out := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		out = append(out, Bucket{
			Key:              k,
			Transactions:     g.transactions,
			Products:         g.products,
			Customers:        len(g.customers),
			AvgProductsPerTx: stats.SafeDiv(float64(g.products), float64(g.transactions), 0),
		})
	}
	return out
}
