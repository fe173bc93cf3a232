package fuse

import (
	"sort"

	"github.com/searchforge/cardfuse/internal/names"
	"github.com/searchforge/cardfuse/internal/signal"
)

// DefaultTopNPerSignal bounds how many candidates each signal contributes to
// the scoring universe. Top-N rather than "all nonzero" keeps dense signals
// from dragging long low-score tails into every query.
const DefaultTopNPerSignal = 50

// Universe builds the per-query candidate set: the union of every active
// signal's top-N plus mustInclude, with the query's own key excluded.
func Universe(query names.Key, perSignal map[signal.Name][]signal.Scored, mustInclude []names.Key) []names.Key {
	set := make(map[names.Key]struct{})
	for _, ranked := range perSignal {
		for _, sc := range ranked {
			if sc.Key != query {
				set[sc.Key] = struct{}{}
			}
		}
	}
	for _, k := range mustInclude {
		if k != "" && k != query {
			set[k] = struct{}{}
		}
	}

	out := make([]names.Key, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
