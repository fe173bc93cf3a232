package fuse

import (
	"fmt"
	"sort"

	"github.com/searchforge/cardfuse/internal/names"
	"github.com/searchforge/cardfuse/internal/signal"
)

// Kind is the closed set of aggregation strategies. Selection is explicit
// engine configuration dispatched through this enum, never a free-form
// string compared at call sites.
type Kind string

const (
	WeightedSum Kind = "weighted_sum"
	RRF         Kind = "rrf"
	CombSUM     Kind = "combsum"
	CombMAX     Kind = "combmax"
	CombMIN     Kind = "combmin"
)

// DefaultRRFK smooths how much early ranks dominate the RRF sum.
const DefaultRRFK = 60

// ParseKind validates a configured aggregator name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case WeightedSum, RRF, CombSUM, CombMAX, CombMIN:
		return Kind(s), nil
	case "":
		return WeightedSum, nil
	default:
		return "", fmt.Errorf("unknown aggregator %q", s)
	}
}

// ScoredCandidate is one fused result row. Signals carries only the signals
// that actually had an opinion; absence is meaningfully different from a
// zero score and stays visible in the breakdown.
type ScoredCandidate struct {
	Key   names.Key
	Score float64
	Rank  int
	// Signals holds the per-signal normalized score where present.
	Signals map[signal.Name]float64
}

// Aggregator combines per-candidate score vectors into a descending ranking
// with ties broken by key ascending, so output is always a total order.
type Aggregator interface {
	Kind() Kind
	Aggregate(candidates []names.Key, scores map[signal.Name]map[names.Key]float64, weights Weights) []ScoredCandidate
}

// New returns the aggregator for the given kind. rrfK only applies to RRF;
// pass 0 for the default.
func New(kind Kind, rrfK int) (Aggregator, error) {
	switch kind {
	case WeightedSum:
		return weightedSumAgg{}, nil
	case RRF:
		if rrfK <= 0 {
			rrfK = DefaultRRFK
		}
		return rrfAgg{k: rrfK}, nil
	case CombSUM:
		return combAgg{kind: CombSUM}, nil
	case CombMAX:
		return combAgg{kind: CombMAX}, nil
	case CombMIN:
		return combAgg{kind: CombMIN}, nil
	default:
		return nil, fmt.Errorf("unknown aggregator %q", kind)
	}
}

// weightedSumAgg: score = sum over signals of weight[s] * (score_s(c) or 0).
// A candidate a signal has no opinion on contributes zero for that signal;
// weight mass is not redistributed, so thinner coverage scores lower.
// CombSUM is the excluded-when-missing counterpart.
type weightedSumAgg struct{}

func (weightedSumAgg) Kind() Kind { return WeightedSum }

func (weightedSumAgg) Aggregate(candidates []names.Key, scores map[signal.Name]map[names.Key]float64, weights Weights) []ScoredCandidate {
	norm := weights.Normalized()
	out := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		row := ScoredCandidate{Key: c, Signals: make(map[signal.Name]float64)}
		for name, w := range norm {
			if s, ok := scores[name][c]; ok {
				row.Signals[name] = s
				row.Score += w * s
			}
			// Missing: contributes 0, stays out of the breakdown.
		}
		out = append(out, row)
	}
	return finish(out)
}

// rrfAgg: rank-based fusion. Each positively-weighted signal ranks its own
// candidates by normalized score; a candidate collects 1/(k+rank) from every
// list it appears in. Weights gate participation (zero excludes) but do not
// scale the contribution, per the classic RRF formulation.
type rrfAgg struct {
	k int
}

func (rrfAgg) Kind() Kind { return RRF }

func (a rrfAgg) Aggregate(candidates []names.Key, scores map[signal.Name]map[names.Key]float64, weights Weights) []ScoredCandidate {
	inUniverse := make(map[names.Key]struct{}, len(candidates))
	for _, c := range candidates {
		inUniverse[c] = struct{}{}
	}

	rows := make(map[names.Key]*ScoredCandidate, len(candidates))
	for _, c := range candidates {
		rows[c] = &ScoredCandidate{Key: c, Signals: make(map[signal.Name]float64)}
	}

	for _, name := range weights.Active() {
		perSignal := scores[name]
		if len(perSignal) == 0 {
			continue
		}
		ranked := signal.RankTopN(perSignal, len(perSignal))
		for idx, sc := range ranked {
			if _, ok := inUniverse[sc.Key]; !ok {
				continue
			}
			row := rows[sc.Key]
			row.Signals[name] = sc.Score
			row.Score += 1.0 / float64(a.k+idx+1)
		}
	}

	out := make([]ScoredCandidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return finish(out)
}

// combAgg hosts the Comb* family. All three consider only signals where the
// candidate is present: CombSUM sums weighted scores without zero-fill
// (favoring candidates covered by fewer but stronger signals), CombMAX
// rewards one dominant signal, CombMIN demands consistency across everything
// that voted.
type combAgg struct {
	kind Kind
}

func (a combAgg) Kind() Kind { return a.kind }

func (a combAgg) Aggregate(candidates []names.Key, scores map[signal.Name]map[names.Key]float64, weights Weights) []ScoredCandidate {
	norm := weights.Normalized()
	out := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		row := ScoredCandidate{Key: c, Signals: make(map[signal.Name]float64)}
		first := true
		for name, w := range norm {
			s, ok := scores[name][c]
			if !ok {
				continue
			}
			row.Signals[name] = s
			weighted := w * s
			switch a.kind {
			case CombSUM:
				row.Score += weighted
			case CombMAX:
				if first || weighted > row.Score {
					row.Score = weighted
				}
			case CombMIN:
				if first || weighted < row.Score {
					row.Score = weighted
				}
			}
			first = false
		}
		out = append(out, row)
	}
	return finish(out)
}

// finish applies the shared deterministic ordering: descending fused score,
// ties by key ascending, then stamps ranks.
func finish(rows []ScoredCandidate) []ScoredCandidate {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score == rows[j].Score {
			return rows[i].Key < rows[j].Key
		}
		return rows[i].Score > rows[j].Score
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
