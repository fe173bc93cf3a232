// Package signal defines the uniform capability shared by all similarity
// sources and the nine concrete implementations backed by precomputed
// artifacts. Backing data loads once at startup and is read-only afterwards;
// every lookup is an in-memory map or vector operation.
package signal

import (
	"sort"

	"github.com/searchforge/cardfuse/internal/names"
)

// Name identifies one similarity signal. The set is closed: fusion weights
// referencing anything outside it are a configuration error.
type Name string

const (
	GraphEmbedding Name = "graph_embedding"
	Cooccurrence   Name = "cooccurrence"
	FunctionalTags Name = "functional_tags"
	TextEmbedding  Name = "text_embedding"
	Sideboard      Name = "sideboard"
	Temporal       Name = "temporal"
	GNNEmbedding   Name = "gnn_embedding"
	Archetype      Name = "archetype"
	Format         Name = "format"
)

// All enumerates every known signal name in a stable order.
func All() []Name {
	return []Name{
		GraphEmbedding,
		Cooccurrence,
		FunctionalTags,
		TextEmbedding,
		Sideboard,
		Temporal,
		GNNEmbedding,
		Archetype,
		Format,
	}
}

// Known reports whether n names a defined signal.
func Known(n Name) bool {
	for _, v := range All() {
		if v == n {
			return true
		}
	}
	return false
}

// Scored pairs a candidate key with an unnormalized affinity score.
type Scored struct {
	Key   names.Key
	Score float64
}

// Source is the uniform capability of one similarity signal. A source that
// lacks data for a query returns an empty map, never an error; downstream
// stages treat that as "no opinion".
type Source interface {
	Name() Name
	// Lookup returns raw affinity scores for every candidate the signal
	// has an opinion on. Scores are comparable only within one query and
	// one signal until normalized.
	Lookup(query names.Key) map[names.Key]float64
	// TopN returns the n highest-scoring candidates, descending by score
	// with ties broken by key ascending for reproducibility.
	TopN(query names.Key, n int) []Scored
	// Vocabulary lists every canonical key the signal knows.
	Vocabulary() []names.Key
}

// RankTopN sorts a raw lookup result and truncates it to n entries. All
// sources share this so tie-breaking stays identical everywhere.
func RankTopN(scores map[names.Key]float64, n int) []Scored {
	if len(scores) == 0 || n <= 0 {
		return nil
	}
	ranked := make([]Scored, 0, len(scores))
	for k, s := range scores {
		ranked = append(ranked, Scored{Key: k, Score: s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score == ranked[j].Score {
			return ranked[i].Key < ranked[j].Key
		}
		return ranked[i].Score > ranked[j].Score
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

func sortedVocabulary(set map[names.Key]struct{}) []names.Key {
	out := make([]names.Key, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
