package txlog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// groupStride is the fixed shape of one repeating group:
// (transaction type, customer id, product list).
const groupStride = 3

// ParseError reports a transaction group field that is present but not
// decodable. It is fatal for the remaining groups of its row only; the batch
// scan continues with the next row.
type ParseError struct {
	Row   int    // 1-based line number of the offending row
	Field string // logical field name, e.g. "type_2"
	Value string // the raw value that failed to decode
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("txlog: row %d: field %s: cannot parse %q", e.Row, e.Field, e.Value)
}

// Parse decodes raw rows into normalized records.
//
// For each row, field 0 is the timestamp. The remaining fields are walked in
// strides of 3 as (type, id, products); the walk stops when fewer than 3
// fields remain, silently dropping a partial trailing group. Groups whose
// type or id is missing are skipped without error. A non-null, non-numeric
// type or id produces a *ParseError delivered through onErr and aborts the
// row's remaining groups.
//
// Parse itself is pure: it never fails as a whole and returns every record
// that decoded cleanly, in input order. onErr may be nil.
func Parse(rows []RawRow, onErr func(row int, err error)) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		recs, err := ParseRow(row)
		out = append(out, recs...)
		if err != nil && onErr != nil {
			onErr(row.Line, err)
		}
	}
	return out
}

// ParseRow decodes a single raw row. On a group decode failure it returns the
// records accumulated before the failure together with a *ParseError; the
// caller decides whether to surface or count it.
func ParseRow(row RawRow) ([]Record, error) {
	if len(row.Fields) == 0 {
		return nil, nil
	}

	dateStr := strings.TrimSpace(row.Fields[0])
	date, ok := parseDate(dateStr)
	if !ok {
		return nil, &ParseError{Row: row.Line, Field: "date", Value: dateStr}
	}

	var recs []Record

	// Explicit group cursor: pos points at the first field of a candidate
	// group, and a group is consumed only when all three of its fields are
	// in bounds. A partial trailing group fails the loop condition and is
	// dropped by contract.
	for pos, group := 1, 1; pos+groupStride-1 < len(row.Fields); pos, group = pos+groupStride, group+1 {
		typStr := strings.TrimSpace(row.Fields[pos])
		idStr := strings.TrimSpace(row.Fields[pos+1])
		productsStr := row.Fields[pos+2]

		// Missing type or id: the slot is empty in the source log. Skip the
		// group, keep walking.
		if typStr == "" || idStr == "" {
			continue
		}

		typ, ok := parseIntLoose(typStr)
		if !ok {
			return recs, &ParseError{Row: row.Line, Field: fmt.Sprintf("type_%d", group), Value: typStr}
		}
		id, ok := parseIntLoose(idStr)
		if !ok {
			return recs, &ParseError{Row: row.Line, Field: fmt.Sprintf("id_%d", group), Value: idStr}
		}

		products := splitProducts(productsStr)
		recs = append(recs, Record{
			Date:         date,
			Type:         typ,
			CustomerID:   id,
			Products:     products,
			ProductCount: len(products),
			HasProducts:  len(products) > 0,
		})
	}

	return recs, nil
}

// splitProducts tokenizes a product list on whitespace. Tokens keep their
// original form; an empty or blank list yields nil.
func splitProducts(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// parseIntLoose accepts plain integers and integral floats ("7", "7.0").
// The float form shows up when an upstream export round-trips ids through a
// floating-point column.
func parseIntLoose(s string) (int64, bool) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"02.01.2006 15:04:05",
	"02.01.2006",
	"02/01/2006",
}

// parseDate tries the known transaction-log timestamp layouts in order.
func parseDate(s string) (time.Time, bool) {
	for _, lay := range dateLayouts {
		if t, err := time.Parse(lay, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func distinctSorted(tokens []string) []string {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
