// Package txlog decodes the raw positional transaction log into normalized
// transaction records.
//
// The raw format is one CSV row per log line: a timestamp followed by a
// repeating group of (transaction type, customer id, product list) triples.
// The group count per row is variable and unbounded. txlog is responsible
// for:
//   - Streaming delimited rows with per-line error isolation
//   - Walking the repeating groups with explicit bounds checks
//   - Emitting immutable Record values
//
// Design constraints:
//   - One malformed row must never abort a multi-million-row scan.
//   - Records are created once and never mutated downstream; every derived
//     table is a new object.
package txlog

import "time"

// Record is the canonical unit produced by the parser: one record per
// (type, customer, products) group found in a raw row.
//
// Products keeps the original token form in as-parsed order, duplicates
// included. ProductCount is always len(Products) and HasProducts is always
// ProductCount > 0; both are materialized because every downstream table
// filters or aggregates on them.
type Record struct {
	Date         time.Time
	Type         int64
	CustomerID   int64
	Products     []string
	ProductCount int
	HasProducts  bool
}

// RawRow is one line of the raw transaction table, already split into fields.
// Line is the 1-based physical line number used in error reporting.
type RawRow struct {
	Line   int
	Fields []string
}

// Basket returns the record's distinct product set in sorted order.
func (r Record) Basket() []string {
	if len(r.Products) == 0 {
		return nil
	}
	return distinctSorted(r.Products)
}
