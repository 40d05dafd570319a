package temporal

import (
	"testing"
	"time"

	"github.com/LeonHartK/datasetExploration/internal/txlog"
)

func at(date string, customer int64, products int) txlog.Record {
	d, _ := time.Parse("2006-01-02 15:04:05", date)
	ps := make([]string, products)
	for i := range ps {
		ps[i] = "p"
	}
	return txlog.Record{
		Date:         d,
		Type:         1,
		CustomerID:   customer,
		Products:     ps,
		ProductCount: products,
		HasProducts:  products > 0,
	}
}

// TestDaily verifies grouping, chronological order and distinct-customer
// counting.
func TestDaily(t *testing.T) {
	t.Parallel()

	recs := []txlog.Record{
		at("2013-01-06 09:00:00", 1, 2),
		at("2013-01-05 10:00:00", 1, 1),
		at("2013-01-05 11:00:00", 1, 3),
		at("2013-01-05 12:00:00", 2, 0),
	}
	got := Daily(recs)

	if len(got) != 2 || got[0].Key != "2013-01-05" || got[1].Key != "2013-01-06" {
		t.Fatalf("buckets = %+v, want two days in order", got)
	}
	day := got[0]
	if day.Transactions != 3 || day.Products != 4 || day.Customers != 2 {
		t.Fatalf("2013-01-05 = %+v, want 3 tx, 4 products, 2 customers", day)
	}
}

// TestWeekly verifies ISO week keys; Jan 5 2013 is a Saturday in ISO week 1,
// Jan 7 opens week 2.
func TestWeekly(t *testing.T) {
	t.Parallel()

	recs := []txlog.Record{
		at("2013-01-05 10:00:00", 1, 1),
		at("2013-01-07 10:00:00", 1, 1),
	}
	got := Weekly(recs)
	if len(got) != 2 || got[0].Key != "2013-W01" || got[1].Key != "2013-W02" {
		t.Fatalf("weeks = %+v, want [2013-W01 2013-W02]", got)
	}
}

// TestMonthly verifies month keys order across a year boundary.
func TestMonthly(t *testing.T) {
	t.Parallel()

	recs := []txlog.Record{
		at("2013-01-05 10:00:00", 1, 1),
		at("2012-12-31 10:00:00", 1, 1),
	}
	got := Monthly(recs)
	if len(got) != 2 || got[0].Key != "2012-12" || got[1].Key != "2013-01" {
		t.Fatalf("months = %+v, want [2012-12 2013-01]", got)
	}
}

// TestDayOfWeek verifies the Monday-first ordering rather than alphabetical.
func TestDayOfWeek(t *testing.T) {
	t.Parallel()

	recs := []txlog.Record{
		at("2013-01-06 10:00:00", 1, 1), // Sunday
		at("2013-01-04 10:00:00", 1, 1), // Friday
		at("2013-01-07 10:00:00", 1, 1), // Monday
	}
	got := DayOfWeek(recs)
	if len(got) != 3 || got[0].Key != "Monday" || got[1].Key != "Friday" || got[2].Key != "Sunday" {
		t.Fatalf("weekdays = %+v, want [Monday Friday Sunday]", got)
	}
}

// TestHourly verifies zero-padded hour keys sort chronologically.
func TestHourly(t *testing.T) {
	t.Parallel()

	recs := []txlog.Record{
		at("2013-01-05 14:30:00", 1, 1),
		at("2013-01-05 09:15:00", 1, 1),
		at("2013-01-05 09:45:00", 2, 1),
	}
	got := Hourly(recs)
	if len(got) != 2 || got[0].Key != "09" || got[1].Key != "14" {
		t.Fatalf("hours = %+v, want [09 14]", got)
	}
	if got[0].Transactions != 2 || got[0].Customers != 2 {
		t.Fatalf("hour 09 = %+v, want 2 tx from 2 customers", got[0])
	}
}
