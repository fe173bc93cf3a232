package names

import (
	"sort"
)

// Merge thresholds for fuzzy alias detection. Pairs at or above mergeThreshold
// collapse into one alias class; pairs in [maybeThreshold, mergeThreshold) are
// reported for offline review instead of merged.
const (
	mergeThreshold = 0.9
	maybeThreshold = 0.8
)

// MaybePair is a near-miss alias candidate surfaced for review.
type MaybePair struct {
	A          Key     `json:"a"`
	B          Key     `json:"b"`
	Similarity float64 `json:"similarity"`
}

// BuildReport summarizes what the alias construction observed. Uncovered
// holds label-vocabulary names that match no signal vocabulary at all; those
// queries can only ever produce "no signal available" answers, so they must
// be visible rather than silently dropped.
type BuildReport struct {
	Vocabulary int         `json:"vocabulary_size"`
	Aliases    int         `json:"alias_count"`
	Uncovered  []Key       `json:"uncovered_labels,omitempty"`
	Maybe      []MaybePair `json:"maybe_pairs,omitempty"`
}

// Resolver maps raw name variants to canonical keys. It is built once per
// dataset version and immutable afterwards, so concurrent use needs no
// locking.
type Resolver struct {
	alias    map[Key]Key
	coverage map[Key]struct{}
	report   BuildReport
}

// BuildInput carries the vocabularies the resolver reconciles.
type BuildInput struct {
	// SignalVocabularies maps a signal name to the raw names it knows.
	SignalVocabularies map[string][]string
	// Labels is the query/label vocabulary (e.g. evaluation set names).
	Labels []string
	// Hints are pre-seeded raw-name -> canonical overrides. They win over
	// any fuzzy merge.
	Hints map[string]string
}

// Build constructs the resolver: it normalizes every observed raw name,
// unions fuzzily-similar normalized forms into alias classes keyed by the
// most frequent spelling, and records label names with no signal coverage.
func Build(in BuildInput) *Resolver {
	freq := make(map[Key]int)
	signalForms := make(map[Key]struct{})

	for _, vocab := range in.SignalVocabularies {
		for _, raw := range vocab {
			k := Normalize(raw)
			if k == "" {
				continue
			}
			freq[k]++
			signalForms[k] = struct{}{}
		}
	}
	for _, raw := range in.Labels {
		k := Normalize(raw)
		if k == "" {
			continue
		}
		freq[k]++
	}

	forms := make([]Key, 0, len(freq))
	for k := range freq {
		forms = append(forms, k)
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i] < forms[j] })

	uf := newUnionFind(forms)
	var maybe []MaybePair

	// Pairwise comparison over normalized forms, blocked by first rune to
	// keep the quadratic scan tractable. Built once per dataset version,
	// never on the query path.
	blocks := make(map[rune][]Key)
	for _, f := range forms {
		r := firstRune(f)
		blocks[r] = append(blocks[r], f)
	}
	for _, block := range blocks {
		for i := 0; i < len(block); i++ {
			for j := i + 1; j < len(block); j++ {
				sim := Similarity(block[i], block[j])
				switch {
				case sim >= mergeThreshold:
					uf.union(block[i], block[j])
				case sim >= maybeThreshold:
					maybe = append(maybe, MaybePair{A: block[i], B: block[j], Similarity: sim})
				}
			}
		}
	}

	// Pick the most frequent member of each class as its canonical key,
	// ties broken lexicographically for reproducibility.
	classes := make(map[Key][]Key)
	for _, f := range forms {
		root := uf.find(f)
		classes[root] = append(classes[root], f)
	}

	alias := make(map[Key]Key, len(forms))
	for _, members := range classes {
		canon := members[0]
		for _, m := range members[1:] {
			if freq[m] > freq[canon] || (freq[m] == freq[canon] && m < canon) {
				canon = m
			}
		}
		for _, m := range members {
			alias[m] = canon
		}
	}

	for raw, canon := range in.Hints {
		k := Normalize(raw)
		if k == "" {
			continue
		}
		alias[k] = Normalize(canon)
	}

	coverage := make(map[Key]struct{}, len(signalForms))
	for f := range signalForms {
		coverage[alias[f]] = struct{}{}
	}

	var uncovered []Key
	seen := make(map[Key]struct{})
	for _, raw := range in.Labels {
		k := Normalize(raw)
		if k == "" {
			continue
		}
		canon := alias[k]
		if canon == "" {
			canon = k
		}
		if _, ok := coverage[canon]; !ok {
			if _, dup := seen[canon]; !dup {
				seen[canon] = struct{}{}
				uncovered = append(uncovered, canon)
			}
		}
	}
	sort.Slice(uncovered, func(i, j int) bool { return uncovered[i] < uncovered[j] })
	sort.Slice(maybe, func(i, j int) bool {
		if maybe[i].A != maybe[j].A {
			return maybe[i].A < maybe[j].A
		}
		return maybe[i].B < maybe[j].B
	})

	aliasCount := 0
	for from, to := range alias {
		if from != to {
			aliasCount++
		}
	}

	return &Resolver{
		alias:    alias,
		coverage: coverage,
		report: BuildReport{
			Vocabulary: len(forms),
			Aliases:    aliasCount,
			Uncovered:  uncovered,
			Maybe:      maybe,
		},
	}
}

// Resolve maps a raw name to its canonical key. It never fails: a name with
// no alias entry resolves to its own normalized form and stays distinct.
func (r *Resolver) Resolve(raw string) Key {
	k := Normalize(raw)
	if canon, ok := r.alias[k]; ok {
		return canon
	}
	return k
}

// Covered reports whether the canonical key is present in at least one
// signal vocabulary. A query resolving to an uncovered key can only yield
// "no signal available".
func (r *Resolver) Covered(key Key) bool {
	_, ok := r.coverage[key]
	return ok
}

// Report returns the construction summary for offline review.
func (r *Resolver) Report() BuildReport {
	return r.report
}

func firstRune(k Key) rune {
	for _, r := range k {
		return r
	}
	return 0
}

type unionFind struct {
	parent map[Key]Key
}

func newUnionFind(keys []Key) *unionFind {
	parent := make(map[Key]Key, len(keys))
	for _, k := range keys {
		parent[k] = k
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(k Key) Key {
	for u.parent[k] != k {
		u.parent[k] = u.parent[u.parent[k]]
		k = u.parent[k]
	}
	return k
}

func (u *unionFind) union(a, b Key) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	// Smaller root wins so class identity is order-independent.
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
}
