package basket

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// TestDeriveRules continues the canonical scenario: from the frequent pair
// (1,2) with count 2, both directions qualify at min_confidence 0.3 with
// confidence 2/3 and lift (2/3)/(3/4) = 8/9.
func TestDeriveRules(t *testing.T) {
	t.Parallel()

	txs := [][]string{{"1", "2"}, {"1", "2"}, {"1", "3"}, {"2", "3"}}
	rules := DeriveRules(Mine(txs, 0.5), 0.3)

	if len(rules) != 2 {
		t.Fatalf("rules = %d, want 2 (both directions of (1,2))", len(rules))
	}
	for _, r := range rules {
		if !approx(r.Confidence, 2.0/3.0) {
			t.Fatalf("rule %v→%s confidence = %v, want 2/3", r.Antecedent, r.Consequent, r.Confidence)
		}
		if !approx(r.Lift, 8.0/9.0) {
			t.Fatalf("rule %v→%s lift = %v, want 8/9", r.Antecedent, r.Consequent, r.Lift)
		}
		if !approx(r.Support, 0.5) || r.Transactions != 2 {
			t.Fatalf("rule %v→%s support/count = %v/%d, want 0.5/2", r.Antecedent, r.Consequent, r.Support, r.Transactions)
		}
	}
}

// TestDeriveRules_DirectionIndependence verifies the two directions of a pair
// qualify independently: with asymmetric antecedent counts one direction can
// pass the confidence gate while the other fails.
func TestDeriveRules_DirectionIndependence(t *testing.T) {
	t.Parallel()

	// a appears in 4 baskets, b in 2, pair (a,b) in 2.
	// b→a: confidence 1.0. a→b: confidence 0.5.
	txs := [][]string{{"a", "b"}, {"a", "b"}, {"a"}, {"a"}}
	rules := DeriveRules(Mine(txs, 0.4), 0.75)

	if len(rules) != 1 {
		t.Fatalf("rules = %d, want 1", len(rules))
	}
	r := rules[0]
	if r.Antecedent[0] != "b" || r.Consequent != "a" {
		t.Fatalf("rule = %v→%s, want b→a", r.Antecedent, r.Consequent)
	}
	if !approx(r.Confidence, 1.0) {
		t.Fatalf("confidence = %v, want 1", r.Confidence)
	}
}

// TestDeriveRules_TripleVariants verifies pair-to-single rules from a
// frequent triple, each gated on its antecedent pair being frequent.
func TestDeriveRules_TripleVariants(t *testing.T) {
	t.Parallel()

	txs := [][]string{
		{"a", "b", "c"},
		{"a", "b", "c"},
	}
	rules := DeriveRules(Mine(txs, 1.0), 0.5)

	var tripleRules int
	for _, r := range rules {
		if len(r.Antecedent) == 2 {
			tripleRules++
			if !approx(r.Confidence, 1.0) || !approx(r.Lift, 1.0) {
				t.Fatalf("triple rule %v→%s conf/lift = %v/%v, want 1/1", r.Antecedent, r.Consequent, r.Confidence, r.Lift)
			}
		}
	}
	if tripleRules != 3 {
		t.Fatalf("triple-derived rules = %d, want 3", tripleRules)
	}
}

// TestDeriveRules_SortedByLift verifies the descending-lift ordering.
func TestDeriveRules_SortedByLift(t *testing.T) {
	t.Parallel()

	txs := [][]string{
		{"a", "b"}, {"a", "b"}, {"a", "b"},
		{"c", "d"}, {"c", "d"},
		{"c"}, {"c"},
	}
	rules := DeriveRules(Mine(txs, 0.2), 0.1)
	for i := 1; i < len(rules); i++ {
		if rules[i].Lift > rules[i-1].Lift {
			t.Fatalf("rules not sorted descending by lift at %d: %v then %v", i, rules[i-1].Lift, rules[i].Lift)
		}
	}
}

// TestDeriveRules_Empty verifies the empty result is non-nil: callers write
// it out as a zero-row table.
func TestDeriveRules_Empty(t *testing.T) {
	t.Parallel()

	rules := DeriveRules(Mine(nil, 0.5), 0.3)
	if rules == nil {
		t.Fatal("rules = nil, want empty non-nil slice")
	}
	if len(rules) != 0 {
		t.Fatalf("rules = %d, want 0", len(rules))
	}
}

// TestCoOccurrence verifies pair counting over baskets with at least two
// distinct products, with single-product baskets excluded from both the
// counts and the percentage base.
func TestCoOccurrence(t *testing.T) {
	t.Parallel()

	txs := [][]string{
		{"1", "2"},
		{"2", "1"}, // same pair, reversed
		{"1", "3"},
		{"9"},      // too small
		{"4", "4"}, // one distinct product, too small
	}
	pairs := CoOccurrence(txs, 2)

	if len(pairs) != 2 {
		t.Fatalf("pairs = %d, want 2", len(pairs))
	}
	top := pairs[0]
	if top.Product1 != "1" || top.Product2 != "2" || top.Frequency != 2 {
		t.Fatalf("top pair = %+v, want (1,2) x2", top)
	}
	// 3 eligible baskets, pair in 2 of them.
	if !approx(top.Pct, 200.0/3.0) {
		t.Fatalf("top pct = %v, want 66.67", top.Pct)
	}
}

// TestCoOccurrence_Empty verifies the non-nil empty contract.
func TestCoOccurrence_Empty(t *testing.T) {
	t.Parallel()

	pairs := CoOccurrence([][]string{{"solo"}}, 0)
	if pairs == nil || len(pairs) != 0 {
		t.Fatalf("pairs = %v, want empty non-nil", pairs)
	}
}
