package fuse

import (
	"github.com/searchforge/cardfuse/internal/names"
)

// Normalize min-max scales one signal's raw scores for one query into [0,1].
// Scales differ wildly across signals (Jaccard in [0,1], cosine in [-1,1],
// decayed counts unbounded), so scaling happens per query and per signal,
// never against a global constant.
//
// When every raw score ties (including the singleton case) every candidate
// gets 1.0: a signal with no discriminating power is treated as maximal
// uninformative agreement, and its configured weight still down-weights it.
func Normalize(raw map[names.Key]float64) map[names.Key]float64 {
	if len(raw) == 0 {
		return map[names.Key]float64{}
	}

	first := true
	var lo, hi float64
	for _, v := range raw {
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	out := make(map[names.Key]float64, len(raw))
	if hi == lo {
		for k := range raw {
			out[k] = 1.0
		}
		return out
	}
	span := hi - lo
	for k, v := range raw {
		out[k] = (v - lo) / span
	}
	return out
}
