// Package report renders analysis results as artifact tables and writes them
// out as CSV files. Every table goes through storage.Table so the same values
// land identically in files and in the configured database.
//
// Float cells are rounded to six decimals; NaN renders as an empty cell so
// zero-row inputs still produce well-formed tables.
package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/LeonHartK/datasetExploration/internal/basket"
	"github.com/LeonHartK/datasetExploration/internal/customer"
	"github.com/LeonHartK/datasetExploration/internal/profile"
	"github.com/LeonHartK/datasetExploration/internal/storage"
	"github.com/LeonHartK/datasetExploration/internal/temporal"
	"github.com/LeonHartK/datasetExploration/internal/txlog"
)

const dateLayout = "2006-01-02 15:04:05"

func fnum(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(math.Round(f*1e6)/1e6, 'f', -1, 64)
}

func fint(n int) string { return strconv.Itoa(n) }

func fint64(n int64) string { return strconv.FormatInt(n, 10) }

// TransformedRecords renders the normalized transaction log.
func TransformedRecords(recs []txlog.Record) storage.Table {
	t := storage.Table{
		Name:    "transformed_records",
		Columns: []string{"date", "record_type", "customer_id", "products", "product_count"},
		Rows:    make([][]string, 0, len(recs)),
	}
	for _, r := range recs {
		t.Rows = append(t.Rows, []string{
			r.Date.Format(dateLayout),
			fint64(r.Type),
			fint64(r.CustomerID),
			strings.Join(r.Products, " "),
			fint(r.ProductCount),
		})
	}
	return t
}

// TransactionStats renders the basket-size distribution as a metric/value
// table, one row per statistic.
func TransactionStats(s basket.TransactionStats) storage.Table {
	return storage.Table{
		Name:    "transaction_stats",
		Columns: []string{"metric", "value"},
		Rows: [][]string{
			{"count", fint(s.Count)},
			{"with_products", fint(s.WithProducts)},
			{"pct_with_products", fnum(s.PctWithProducts)},
			{"mean", fnum(s.Mean)},
			{"median", fnum(s.Median)},
			{"mode", fnum(s.Mode)},
			{"std", fnum(s.Std)},
			{"min", fnum(s.Min)},
			{"max", fnum(s.Max)},
			{"q1", fnum(s.Q1)},
			{"q3", fnum(s.Q3)},
			{"iqr", fnum(s.IQR)},
			{"lower_bound", fnum(s.LowerBound)},
			{"upper_bound", fnum(s.UpperBound)},
			{"outlier_count", fint(s.OutlierCount)},
			{"outlier_pct", fnum(s.OutlierPct)},
		},
	}
}

// TypeStats renders the per-type basket statistics.
func TypeStats(ts []basket.TypeStats) storage.Table {
	t := storage.Table{
		Name: "type_stats",
		Columns: []string{
			"record_type", "total", "with_products", "pct_with_products",
			"mean", "median", "std", "min", "max",
		},
		Rows: make([][]string, 0, len(ts)),
	}
	for _, s := range ts {
		t.Rows = append(t.Rows, []string{
			fint64(s.Type), fint(s.Total), fint(s.WithProducts), fnum(s.PctWithProducts),
			fnum(s.Mean), fnum(s.Median), fnum(s.Std), fnum(s.Min), fnum(s.Max),
		})
	}
	return t
}

// ProductFrequency renders the ranked product table.
func ProductFrequency(fs []basket.ProductFreq) storage.Table {
	t := storage.Table{
		Name:    "product_frequency",
		Columns: []string{"product", "count", "pct", "cumulative_pct"},
		Rows:    make([][]string, 0, len(fs)),
	}
	for _, f := range fs {
		t.Rows = append(t.Rows, []string{f.Product, fint(f.Count), fnum(f.Pct), fnum(f.CumulativePct)})
	}
	return t
}

// CoOccurrence renders the ranked pair table.
func CoOccurrence(ps []basket.PairCount) storage.Table {
	t := storage.Table{
		Name:    "co_occurrence",
		Columns: []string{"product_1", "product_2", "frequency", "pct"},
		Rows:    make([][]string, 0, len(ps)),
	}
	for _, p := range ps {
		t.Rows = append(t.Rows, []string{p.Product1, p.Product2, fint(p.Frequency), fnum(p.Pct)})
	}
	return t
}

// AssociationRules renders the rule table. Multi-product antecedents are
// comma-joined in canonical order.
func AssociationRules(rules []basket.Rule) storage.Table {
	t := storage.Table{
		Name:    "association_rules",
		Columns: []string{"antecedent", "consequent", "support", "confidence", "lift", "transaction_count"},
		Rows:    make([][]string, 0, len(rules)),
	}
	for _, r := range rules {
		t.Rows = append(t.Rows, []string{
			r.AntecedentKey(), r.Consequent,
			fnum(r.Support), fnum(r.Confidence), fnum(r.Lift), fint(r.Transactions),
		})
	}
	return t
}

// CustomerFrequency renders the per-customer activity table.
func CustomerFrequency(rows []customer.FrequencyRow) storage.Table {
	t := storage.Table{
		Name: "customer_frequency",
		Columns: []string{
			"customer_id", "transaction_count", "total_products", "with_products",
			"avg_products_per_transaction", "pct_with_products",
		},
		Rows: make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			fint64(r.CustomerID), fint(r.TransactionCount), fint(r.TotalProducts),
			fint(r.WithProducts), fnum(r.AvgProductsPerTransaction), fnum(r.PctWithProducts),
		})
	}
	return t
}

// PurchaseIntervals renders the per-customer gap table.
func PurchaseIntervals(rows []customer.IntervalRow) storage.Table {
	t := storage.Table{
		Name: "purchase_intervals",
		Columns: []string{
			"customer_id", "mean_days", "median_days", "min_days", "max_days",
			"interval_count", "band",
		},
		Rows: make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			fint64(r.CustomerID), fnum(r.MeanDays), fnum(r.MedianDays),
			fnum(r.MinDays), fnum(r.MaxDays), fint(r.IntervalCount), r.Band,
		})
	}
	return t
}

// CustomerSegments renders the RFM profile table.
func CustomerSegments(profiles []customer.Profile) storage.Table {
	t := storage.Table{
		Name: "customer_segments",
		Columns: []string{
			"customer_id", "transaction_count", "total_products", "recency_days",
			"r_score", "f_score", "m_score", "rfm_score", "segment",
		},
		Rows: make([][]string, 0, len(profiles)),
	}
	for _, p := range profiles {
		t.Rows = append(t.Rows, []string{
			fint64(p.CustomerID), fint(p.TransactionCount), fint(p.TotalProducts),
			fint(p.RecencyDays), fint(p.RecencyScore), fint(p.FrequencyScore),
			fint(p.MonetaryScore), fint(p.RFMScore), p.Segment,
		})
	}
	return t
}

// BehaviorSummary renders the executive roll-up as a metric/value table. The
// segment and band distributions go to their own tables.
func BehaviorSummary(s customer.BehaviorSummary) storage.Table {
	return storage.Table{
		Name:    "behavior_summary",
		Columns: []string{"metric", "value"},
		Rows: [][]string{
			{"customers", fint(s.Customers)},
			{"one_time_customers", fint(s.OneTime)},
			{"repeat_customers", fint(s.Repeat)},
			{"repeat_pct", fnum(s.RepeatPct)},
			{"avg_transactions_per_customer", fnum(s.AvgTransactionsPerCustomer)},
			{"avg_products_per_customer", fnum(s.AvgProductsPerCustomer)},
		},
	}
}

// SegmentDistribution renders the segment label counts.
func SegmentDistribution(s customer.BehaviorSummary) storage.Table {
	return labelTable("segment_distribution", "segment", s.Segments)
}

// PurchaseBands renders the purchase-rhythm band counts.
func PurchaseBands(s customer.BehaviorSummary) storage.Table {
	return labelTable("purchase_bands", "band", s.Bands)
}

func labelTable(name, labelCol string, counts []customer.LabelCount) storage.Table {
	t := storage.Table{
		Name:    name,
		Columns: []string{labelCol, "count", "pct"},
		Rows:    make([][]string, 0, len(counts)),
	}
	for _, c := range counts {
		t.Rows = append(t.Rows, []string{c.Label, fint(c.Count), fnum(c.Pct)})
	}
	return t
}

// Temporal renders one time-bucketed sales table under the given artifact
// name (daily_sales, weekly_sales and so on).
func Temporal(name string, buckets []temporal.Bucket) storage.Table {
	t := storage.Table{
		Name:    name,
		Columns: []string{"period", "transactions", "products", "customers", "avg_products_per_transaction"},
		Rows:    make([][]string, 0, len(buckets)),
	}
	for _, b := range buckets {
		t.Rows = append(t.Rows, []string{
			b.Key, fint(b.Transactions), fint(b.Products), fint(b.Customers), fnum(b.AvgProductsPerTx),
		})
	}
	return t
}

// NumericProfiles renders the column profile table. Constant and Identifier
// columns have empty bound cells.
func NumericProfiles(ps []profile.NumericProfile) storage.Table {
	t := storage.Table{
		Name: "numeric_profiles",
		Columns: []string{
			"column", "classification", "count", "mean", "median", "mode", "std",
			"variance", "min", "max", "q1", "q3", "lower_bound", "upper_bound", "outlier_count",
		},
		Rows: make([][]string, 0, len(ps)),
	}
	for _, p := range ps {
		t.Rows = append(t.Rows, []string{
			p.Name, string(p.Class), fint(p.Count), fnum(p.Mean), fnum(p.Median),
			fnum(p.Mode), fnum(p.Std), fnum(p.Variance), fnum(p.Min), fnum(p.Max),
			fnum(p.Q1), fnum(p.Q3), fnum(p.LowerBound), fnum(p.UpperBound), fint(p.OutlierCount),
		})
	}
	return t
}

// CategoricalProfiles flattens string-column value distributions into one
// table, one row per (column, value) with the column's null and unique counts
// repeated for self-contained consumption.
func CategoricalProfiles(ps []profile.CategoricalProfile) storage.Table {
	t := storage.Table{
		Name:    "categorical_profiles",
		Columns: []string{"column", "value", "count", "pct", "column_nulls", "column_unique"},
	}
	for _, p := range ps {
		for _, v := range p.Top {
			t.Rows = append(t.Rows, []string{
				p.Name, v.Value, fint(v.Count), fnum(v.Pct), fint(p.NullCount), fint(p.Unique),
			})
		}
	}
	if t.Rows == nil {
		t.Rows = [][]string{}
	}
	return t
}

// QualitySummary renders the table-level shape and duplicate counts.
func QualitySummary(q profile.QualityReport) storage.Table {
	return storage.Table{
		Name:    "quality_report",
		Columns: []string{"metric", "value"},
		Rows: [][]string{
			{"rows", fint(q.Rows)},
			{"columns", fint(q.Columns)},
			{"duplicate_rows", fint(q.DuplicateRows)},
		},
	}
}

// ColumnNulls renders the per-column null load.
func ColumnNulls(q profile.QualityReport) storage.Table {
	t := storage.Table{
		Name:    "column_nulls",
		Columns: []string{"column", "nulls", "pct"},
		Rows:    make([][]string, 0, len(q.Nulls)),
	}
	for _, n := range q.Nulls {
		t.Rows = append(t.Rows, []string{n.Name, fint(n.Nulls), fnum(n.Pct)})
	}
	return t
}
