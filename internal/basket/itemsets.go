package basket

import "sort"

// Pair is a canonical unordered product pair: A < B lexicographically, so
// (x,y) and (y,x) always collapse to one key.
type Pair struct {
	A, B string
}

// Triple is a canonical unordered product triple: A < B < C.
type Triple struct {
	A, B, C string
}

// Pairs returns the three constituent pairs of the triple, each canonical.
func (t Triple) Pairs() [3]Pair {
	return [3]Pair{{t.A, t.B}, {t.A, t.C}, {t.B, t.C}}
}

// Itemsets holds the frequent itemsets mined from a transaction set, keyed by
// canonical item/pair/triple with their absolute transaction counts.
type Itemsets struct {
	N        int // number of transactions mined
	MinCount int // support threshold in absolute counts

	Single map[string]int
	Pair   map[Pair]int
	Triple map[Triple]int
}

// Mine counts frequent 1-, 2- and 3-itemsets over transactions using
// Apriori-style anti-monotone pruning at depth 3.
//
// Items are deduplicated within each transaction before counting, so a basket
// listing the same product twice supports an itemset once. The threshold is
// min_count = floor(minSupport * N); a threshold that truncates to 0 admits
// every observed itemset, which is the documented boundary for tiny inputs.
//
// Pruning: pairs are only counted between frequent singles, and a triple is
// only counted when all three members are frequent singles and all three
// constituent pairs are frequent pairs. Worst case per transaction is still
// cubic in distinct basket size, so baskets are expected to stay small.
func Mine(transactions [][]string, minSupport float64) Itemsets {
	n := len(transactions)
	sets := Itemsets{
		N:        n,
		MinCount: int(minSupport * float64(n)),
		Single:   make(map[string]int),
		Pair:     make(map[Pair]int),
		Triple:   make(map[Triple]int),
	}

	// Canonical baskets: distinct items, sorted. Computed once and reused by
	// all three passes.
	baskets := make([][]string, 0, n)
	for _, tx := range transactions {
		baskets = append(baskets, dedupSorted(tx))
	}

	for _, b := range baskets {
		for _, item := range b {
			sets.Single[item]++
		}
	}
	prune(sets.Single, sets.MinCount)

	for _, b := range baskets {
		for i := 0; i < len(b); i++ {
			if _, ok := sets.Single[b[i]]; !ok {
				continue
			}
			for j := i + 1; j < len(b); j++ {
				if _, ok := sets.Single[b[j]]; !ok {
					continue
				}
				sets.Pair[Pair{b[i], b[j]}]++
			}
		}
	}
	prune(sets.Pair, sets.MinCount)

	for _, b := range baskets {
		if len(b) < 3 {
			continue
		}
		for i := 0; i < len(b); i++ {
			for j := i + 1; j < len(b); j++ {
				if _, ok := sets.Pair[Pair{b[i], b[j]}]; !ok {
					continue
				}
				for k := j + 1; k < len(b); k++ {
					tr := Triple{b[i], b[j], b[k]}
					if _, ok := sets.Pair[Pair{b[i], b[k]}]; !ok {
						continue
					}
					if _, ok := sets.Pair[Pair{b[j], b[k]}]; !ok {
						continue
					}
					sets.Triple[tr]++
				}
			}
		}
	}
	prune(sets.Triple, sets.MinCount)

	return sets
}

func prune[K comparable](m map[K]int, minCount int) {
	for k, c := range m {
		if c < minCount {
			delete(m, k)
		}
	}
}

func dedupSorted(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for it := range set {
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}
