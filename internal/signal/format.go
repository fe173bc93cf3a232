package signal

import (
	"github.com/searchforge/cardfuse/internal/names"
)

// crossFormatBonus is added when a pair co-occurs in two or more formats;
// similarity that survives different card pools is stronger evidence.
const crossFormatBonus = 0.25

// FormatSource scores pairs by format-restricted co-occurrence: the best
// per-format Jaccard plus a bonus for pairs seen together in >=2 formats.
type FormatSource struct {
	index *DeckIndex
	// byFormat maps format -> card -> deck-id set within that format.
	byFormat map[string]map[names.Key]map[int]struct{}
}

func NewFormatSource(index *DeckIndex) *FormatSource {
	s := &FormatSource{
		index:    index,
		byFormat: make(map[string]map[names.Key]map[int]struct{}),
	}
	for format, deckIDs := range index.byFormat {
		perCard := make(map[names.Key]map[int]struct{})
		for _, id := range deckIDs {
			for key := range index.decks[id].cards {
				if perCard[key] == nil {
					perCard[key] = make(map[int]struct{})
				}
				perCard[key][id] = struct{}{}
			}
		}
		s.byFormat[format] = perCard
	}
	return s
}

func (s *FormatSource) Name() Name { return Format }

func (s *FormatSource) Lookup(query names.Key) map[names.Key]float64 {
	best := make(map[names.Key]float64)
	formats := make(map[names.Key]int)

	for _, perCard := range s.byFormat {
		qDecks := perCard[query]
		if len(qDecks) == 0 {
			continue
		}
		seen := make(map[names.Key]struct{})
		for cand, cDecks := range perCard {
			if cand == query {
				continue
			}
			score := jaccard(qDecks, cDecks)
			if score <= 0 {
				continue
			}
			if score > best[cand] {
				best[cand] = score
			}
			if _, dup := seen[cand]; !dup {
				seen[cand] = struct{}{}
				formats[cand]++
			}
		}
	}

	out := make(map[names.Key]float64, len(best))
	for cand, score := range best {
		if formats[cand] >= 2 {
			score += crossFormatBonus
		}
		out[cand] = score
	}
	return out
}

func (s *FormatSource) TopN(query names.Key, n int) []Scored {
	return RankTopN(s.Lookup(query), n)
}

func (s *FormatSource) Vocabulary() []names.Key { return s.index.vocab }
