// Package fuse combines heterogeneous per-signal score lists into one
// deterministic ranking: per-query normalization, candidate universe
// construction, five aggregation strategies, and an optional MMR diversity
// pass.
package fuse

import (
	"fmt"
	"sort"

	"github.com/searchforge/cardfuse/internal/signal"
)

// Weights assigns a non-negative weight per signal. Zero weight excludes the
// signal from the session entirely. Weights are an immutable per-session
// value, never process-wide state; reloading tuned weights means building a
// new engine generation.
type Weights map[signal.Name]float64

// Validate rejects degenerate weight documents before any query runs:
// unknown signal names, negative weights, and the all-zero vector.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("fusion weights: empty")
	}
	positive := 0
	for name, weight := range w {
		if !signal.Known(name) {
			return fmt.Errorf("fusion weights: unknown signal %q", name)
		}
		if weight < 0 {
			return fmt.Errorf("fusion weights: signal %q has negative weight %v", name, weight)
		}
		if weight > 0 {
			positive++
		}
	}
	if positive == 0 {
		return fmt.Errorf("fusion weights: all weights are zero")
	}
	return nil
}

// Active lists signals carrying positive weight, in stable order.
func (w Weights) Active() []signal.Name {
	out := make([]signal.Name, 0, len(w))
	for _, n := range signal.All() {
		if w[n] > 0 {
			out = append(out, n)
		}
	}
	return out
}

// Normalized returns a copy scaled to sum 1.0 over positive entries.
func (w Weights) Normalized() Weights {
	var sum float64
	for _, v := range w {
		if v > 0 {
			sum += v
		}
	}
	out := make(Weights, len(w))
	if sum == 0 {
		return out
	}
	for n, v := range w {
		if v > 0 {
			out[n] = v / sum
		}
	}
	return out
}

// Fingerprint is a stable textual identity for cache keys.
func (w Weights) Fingerprint() string {
	names := make([]string, 0, len(w))
	for n := range w {
		names = append(names, string(n))
	}
	sort.Strings(names)
	fp := ""
	for _, n := range names {
		fp += fmt.Sprintf("%s=%g;", n, w[signal.Name(n)])
	}
	return fp
}
