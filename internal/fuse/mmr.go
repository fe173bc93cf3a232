package fuse

import (
	"github.com/searchforge/cardfuse/internal/names"
)

// SimFunc reports pairwise similarity between two candidates, used by the
// diversity pass to measure redundancy against already-selected results.
type SimFunc func(a, b names.Key) float64

// MMRRerank greedily re-orders ranked results, at each step picking the
// remaining candidate maximizing
//
//	lambda*relevance(c) - (1-lambda)*max_{s in selected} sim(c, s)
//
// until k are selected. lambda=1 reproduces the input order exactly;
// lambda=0 chases pure diversity. Ties fall back to the original rank so the
// output stays deterministic.
func MMRRerank(ranked []ScoredCandidate, sim SimFunc, lambda float64, k int) []ScoredCandidate {
	if len(ranked) == 0 || k <= 0 {
		return nil
	}
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	if k > len(ranked) {
		k = len(ranked)
	}
	if sim == nil || lambda == 1 {
		out := make([]ScoredCandidate, k)
		copy(out, ranked[:k])
		for i := range out {
			out[i].Rank = i + 1
		}
		return out
	}

	remaining := make([]ScoredCandidate, len(ranked))
	copy(remaining, ranked)
	selected := make([]ScoredCandidate, 0, k)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestObj := mmrObjective(remaining[0], selected, sim, lambda)
		for i := 1; i < len(remaining); i++ {
			obj := mmrObjective(remaining[i], selected, sim, lambda)
			// Strict improvement required: on ties the earlier (higher
			// pre-MMR rank) candidate wins.
			if obj > bestObj {
				bestObj = obj
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	for i := range selected {
		selected[i].Rank = i + 1
	}
	return selected
}

func mmrObjective(c ScoredCandidate, selected []ScoredCandidate, sim SimFunc, lambda float64) float64 {
	redundancy := 0.0
	for i, s := range selected {
		v := sim(c.Key, s.Key)
		if i == 0 || v > redundancy {
			redundancy = v
		}
	}
	return lambda*c.Score - (1-lambda)*redundancy
}
