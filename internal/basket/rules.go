package basket

import (
	"sort"
	"strings"

	"github.com/LeonHartK/datasetExploration/internal/stats"
)

// Rule is one association rule derived from a frequent itemset.
type Rule struct {
	Antecedent   []string // 1 or 2 products, canonical order
	Consequent   string
	Support      float64 // itemset count / N
	Confidence   float64 // itemset count / antecedent count
	Lift         float64 // confidence / (consequent count / N); 0 when the consequent was never seen
	Transactions int     // absolute itemset count
}

// AntecedentKey renders the antecedent as a stable comma-joined key for
// output tables.
func (r Rule) AntecedentKey() string {
	return strings.Join(r.Antecedent, ",")
}

// DeriveRules generates association rules from mined itemsets.
//
// Every frequent pair {A,B} is checked in both directions independently; a
// frequent triple {A,B,C} yields the three pair-to-single variants {A,B}→C,
// {A,C}→B and {B,C}→A, each admitted only when its antecedent pair is itself
// frequent. A rule is emitted when its confidence reaches minConfidence.
//
// The result is sorted descending by lift with a stable sort, so equal-lift
// rules keep their generation order. No qualifying rules yields an empty,
// non-nil slice: downstream always writes a well-formed table.
func DeriveRules(sets Itemsets, minConfidence float64) []Rule {
	rules := make([]Rule, 0, 2*len(sets.Pair)+3*len(sets.Triple))

	// Deterministic generation order: maps are iterated via sorted key lists
	// so the stable sort below has a reproducible baseline.
	for _, p := range sortedPairs(sets.Pair) {
		c := sets.Pair[p]
		rules = appendRule(rules, sets, []string{p.A}, p.B, c, minConfidence)
		rules = appendRule(rules, sets, []string{p.B}, p.A, c, minConfidence)
	}

	for _, t := range sortedTriples(sets.Triple) {
		c := sets.Triple[t]
		rules = appendRule(rules, sets, []string{t.A, t.B}, t.C, c, minConfidence)
		rules = appendRule(rules, sets, []string{t.A, t.C}, t.B, c, minConfidence)
		rules = appendRule(rules, sets, []string{t.B, t.C}, t.A, c, minConfidence)
	}

	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Lift > rules[j].Lift })
	return rules
}

// appendRule scores one candidate rule and appends it when it qualifies.
// itemCount is the full itemset's transaction count.
func appendRule(rules []Rule, sets Itemsets, antecedent []string, consequent string, itemCount int, minConfidence float64) []Rule {
	var anteCount int
	switch len(antecedent) {
	case 1:
		anteCount = sets.Single[antecedent[0]]
	case 2:
		anteCount = sets.Pair[Pair{antecedent[0], antecedent[1]}]
	}
	if anteCount == 0 {
		// Pruned antecedent: the rule cannot be scored.
		return rules
	}

	confidence := float64(itemCount) / float64(anteCount)
	if confidence < minConfidence {
		return rules
	}

	consequentRate := stats.SafeDiv(float64(sets.Single[consequent]), float64(sets.N), 0)
	lift := 0.0
	if consequentRate > 0 {
		lift = confidence / consequentRate
	}

	return append(rules, Rule{
		Antecedent:   antecedent,
		Consequent:   consequent,
		Support:      stats.SafeDiv(float64(itemCount), float64(sets.N), 0),
		Confidence:   confidence,
		Lift:         lift,
		Transactions: itemCount,
	})
}

// PairCount is one ranked co-occurrence entry.
type PairCount struct {
	Product1  string
	Product2  string
	Frequency int
	Pct       float64 // share of eligible baskets containing the pair, in percent
}

// CoOccurrence counts unordered product pairs across transactions with at
// least minBasketSize distinct products (zero or negative means the default
// of 2). It is independent of support and confidence thresholds and is
// computed even when full rule mining finds nothing.
//
// The result is ranked descending by frequency, ties broken by pair key, and
// is empty but non-nil when no basket qualifies.
func CoOccurrence(transactions [][]string, minBasketSize int) []PairCount {
	if minBasketSize <= 0 {
		minBasketSize = 2
	}

	counts := make(map[Pair]int)
	eligible := 0
	for _, tx := range transactions {
		b := dedupSorted(tx)
		if len(b) < minBasketSize {
			continue
		}
		eligible++
		for i := 0; i < len(b); i++ {
			for j := i + 1; j < len(b); j++ {
				counts[Pair{b[i], b[j]}]++
			}
		}
	}

	out := make([]PairCount, 0, len(counts))
	for _, p := range sortedPairs(counts) {
		out = append(out, PairCount{
			Product1:  p.A,
			Product2:  p.B,
			Frequency: counts[p],
			Pct:       stats.SafeDiv(float64(counts[p])*100, float64(eligible), 0),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Frequency > out[j].Frequency })
	return out
}

func sortedPairs(m map[Pair]int) []Pair {
	keys := make([]Pair, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].A != keys[j].A {
			return keys[i].A < keys[j].A
		}
		return keys[i].B < keys[j].B
	})
	return keys
}

func sortedTriples(m map[Triple]int) []Triple {
	keys := make([]Triple, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].A != keys[j].A {
			return keys[i].A < keys[j].A
		}
		if keys[i].B != keys[j].B {
			return keys[i].B < keys[j].B
		}
		return keys[i].C < keys[j].C
	})
	return keys
}
