// Package testutil provides controllable in-memory signal sources for tests.
package testutil

import (
	"sort"
	"sync"

	"github.com/searchforge/cardfuse/internal/names"
	"github.com/searchforge/cardfuse/internal/signal"
)

// FakeSignal is an in-memory signal.Source with fixed per-query score
// tables. It counts lookups so tests can assert on call patterns.
type FakeSignal struct {
	name signal.Name

	mu     sync.Mutex
	tables map[names.Key]map[names.Key]float64
	calls  int
}

// NewFakeSignal constructs a fake signal with no data; chain With to
// populate it.
func NewFakeSignal(name signal.Name) *FakeSignal {
	return &FakeSignal{
		name:   name,
		tables: make(map[names.Key]map[names.Key]float64),
	}
}

// With sets the raw scores returned for one query and returns the fake for
// chaining.
func (f *FakeSignal) With(query names.Key, scores map[names.Key]float64) *FakeSignal {
	copied := make(map[names.Key]float64, len(scores))
	for k, v := range scores {
		copied[k] = v
	}
	f.tables[query] = copied
	return f
}

func (f *FakeSignal) Name() signal.Name { return f.name }

func (f *FakeSignal) Lookup(query names.Key) map[names.Key]float64 {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	table, ok := f.tables[query]
	if !ok {
		return map[names.Key]float64{}
	}
	out := make(map[names.Key]float64, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}

func (f *FakeSignal) TopN(query names.Key, n int) []signal.Scored {
	return signal.RankTopN(f.Lookup(query), n)
}

func (f *FakeSignal) Vocabulary() []names.Key {
	set := make(map[names.Key]struct{})
	for q, table := range f.tables {
		set[q] = struct{}{}
		for k := range table {
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

// Calls reports how many lookups this fake served.
func (f *FakeSignal) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
