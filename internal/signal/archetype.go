package signal

import (
	"github.com/searchforge/cardfuse/internal/names"
)

// DefaultStapleThreshold is the inclusion rate at which a card counts as an
// archetype staple.
const DefaultStapleThreshold = 0.70

// ArchetypeSource scores pairs by shared-staple membership plus
// within-archetype co-occurrence. Two cards that are both staples of the
// same named strategy are similar even when they never share a deck slot.
type ArchetypeSource struct {
	index     *DeckIndex
	threshold float64

	// staples maps archetype -> set of staple keys, precomputed at build.
	staples map[string]map[names.Key]struct{}
	// byArchetype maps archetype -> card -> deck-id set within that archetype.
	byArchetype map[string]map[names.Key]map[int]struct{}
}

func NewArchetypeSource(index *DeckIndex, stapleThreshold float64) *ArchetypeSource {
	if stapleThreshold <= 0 || stapleThreshold > 1 {
		stapleThreshold = DefaultStapleThreshold
	}
	s := &ArchetypeSource{
		index:       index,
		threshold:   stapleThreshold,
		staples:     make(map[string]map[names.Key]struct{}),
		byArchetype: make(map[string]map[names.Key]map[int]struct{}),
	}

	for arch, deckIDs := range index.byArchetype {
		counts := make(map[names.Key]int)
		perCard := make(map[names.Key]map[int]struct{})
		for _, id := range deckIDs {
			for key := range index.decks[id].cards {
				counts[key]++
				if perCard[key] == nil {
					perCard[key] = make(map[int]struct{})
				}
				perCard[key][id] = struct{}{}
			}
		}
		stapleSet := make(map[names.Key]struct{})
		for key, n := range counts {
			if float64(n)/float64(len(deckIDs)) >= s.threshold {
				stapleSet[key] = struct{}{}
			}
		}
		s.staples[arch] = stapleSet
		s.byArchetype[arch] = perCard
	}
	return s
}

func (s *ArchetypeSource) Name() Name { return Archetype }

func (s *ArchetypeSource) Lookup(query names.Key) map[names.Key]float64 {
	out := make(map[names.Key]float64)
	for arch, perCard := range s.byArchetype {
		qDecks := perCard[query]
		if len(qDecks) == 0 {
			continue
		}
		_, qStaple := s.staples[arch][query]
		for cand, cDecks := range perCard {
			if cand == query {
				continue
			}
			score := jaccard(qDecks, cDecks)
			if qStaple {
				if _, ok := s.staples[arch][cand]; ok {
					score += 1.0
				}
			}
			if score > 0 {
				out[cand] += score
			}
		}
	}
	return out
}

func (s *ArchetypeSource) TopN(query names.Key, n int) []Scored {
	return RankTopN(s.Lookup(query), n)
}

func (s *ArchetypeSource) Vocabulary() []names.Key { return s.index.vocab }

// Staples exposes the staple set of one archetype, mainly for debugging.
func (s *ArchetypeSource) Staples(archetype string) []names.Key {
	return sortedVocabulary(s.staples[archetype])
}
