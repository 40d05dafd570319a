package profile

import (
	"sort"
	"strconv"
	"strings"

	"github.com/LeonHartK/datasetExploration/internal/stats"
)

// ValueCount is one entry of a categorical value distribution.
type ValueCount struct {
	Value string
	Count int
	Pct   float64
}

// CategoricalProfile describes one non-numeric column.
type CategoricalProfile struct {
	Name      string
	Count     int // non-null values
	NullCount int
	Unique    int
	Top       []ValueCount // ranked by count, capped at the requested size
}

// ProfileCategorical summarizes a string column. Null means empty after
// trimming. topN <= 0 keeps the full ranking. Percentages are over non-null
// values.
func ProfileCategorical(name string, values []string, topN int) CategoricalProfile {
	p := CategoricalProfile{Name: name}

	counts := make(map[string]int)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			p.NullCount++
			continue
		}
		counts[v]++
		p.Count++
	}
	p.Unique = len(counts)

	top := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		top = append(top, ValueCount{
			Value: v,
			Count: c,
			Pct:   stats.SafeDiv(float64(c)*100, float64(p.Count), 0),
		})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Value < top[j].Value
	})
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}
	p.Top = top
	return p
}

// ColumnNulls reports the null load of one column.
type ColumnNulls struct {
	Name  string
	Nulls int
	Pct   float64
}

// QualityReport is the table-level health check written at the start of a
// run: shape, per-column null counts and exact duplicate rows.
type QualityReport struct {
	Rows          int
	Columns       int
	DuplicateRows int
	Nulls         []ColumnNulls // one entry per header column, in header order
}

// Quality scans a raw table for shape, nulls and duplicate rows. Rows shorter
// than the header are padded with nulls for counting purposes; a duplicate is
// an exact repeat of a previously seen row.
func Quality(headers []string, rows [][]string) QualityReport {
	r := QualityReport{
		Rows:    len(rows),
		Columns: len(headers),
		Nulls:   make([]ColumnNulls, len(headers)),
	}
	for i, h := range headers {
		r.Nulls[i].Name = h
	}

	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		for i := range headers {
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				r.Nulls[i].Nulls++
			}
		}
		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			r.DuplicateRows++
		} else {
			seen[key] = struct{}{}
		}
	}

	for i := range r.Nulls {
		r.Nulls[i].Pct = stats.SafeDiv(float64(r.Nulls[i].Nulls)*100, float64(r.Rows), 0)
	}
	return r
}

// ExtractNumeric parses a string column into floats, counting nulls (empty
// cells) separately. ok is false when any non-null value fails to parse,
// which marks the column as non-numeric.
func ExtractNumeric(values []string) (xs []float64, nulls int, ok bool) {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			nulls++
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, nulls, false
		}
		xs = append(xs, f)
	}
	return xs, nulls, true
}
