package signal

import (
	"math"
	"time"

	"github.com/searchforge/cardfuse/internal/names"
)

// CooccurrenceSource scores pairs by deck-level Jaccard over the full index:
// |decks with both| / |decks with either|.
type CooccurrenceSource struct {
	index *DeckIndex
}

func NewCooccurrenceSource(index *DeckIndex) *CooccurrenceSource {
	return &CooccurrenceSource{index: index}
}

func (s *CooccurrenceSource) Name() Name { return Cooccurrence }

func (s *CooccurrenceSource) Lookup(query names.Key) map[names.Key]float64 {
	qDecks := s.index.byCard[query]
	out := make(map[names.Key]float64)
	for cand := range s.index.cooccurring(query, qDecks, false) {
		if score := jaccard(qDecks, s.index.byCard[cand]); score > 0 {
			out[cand] = score
		}
	}
	return out
}

func (s *CooccurrenceSource) TopN(query names.Key, n int) []Scored {
	return RankTopN(s.Lookup(query), n)
}

func (s *CooccurrenceSource) Vocabulary() []names.Key { return s.index.vocab }

// SideboardSource is the same Jaccard restricted to sideboard sections,
// which isolates answer-style similarity (cards brought in for the same
// matchups) from maindeck synergy.
type SideboardSource struct {
	index *DeckIndex
}

func NewSideboardSource(index *DeckIndex) *SideboardSource {
	return &SideboardSource{index: index}
}

func (s *SideboardSource) Name() Name { return Sideboard }

func (s *SideboardSource) Lookup(query names.Key) map[names.Key]float64 {
	qDecks := s.index.sideByCard[query]
	out := make(map[names.Key]float64)
	for cand := range s.index.cooccurring(query, qDecks, true) {
		if score := jaccard(qDecks, s.index.sideByCard[cand]); score > 0 {
			out[cand] = score
		}
	}
	return out
}

func (s *SideboardSource) TopN(query names.Key, n int) []Scored {
	return RankTopN(s.Lookup(query), n)
}

func (s *SideboardSource) Vocabulary() []names.Key {
	return sortedVocabulary(keysOf(s.index.sideByCard))
}

// TemporalSource counts co-occurrences inside a recent window, each deck
// weighted by exponential recency decay. Raw scores are decayed counts; the
// normalizer makes them comparable with the bounded signals.
type TemporalSource struct {
	index    *DeckIndex
	window   time.Duration
	halfLife time.Duration
	now      time.Time
}

// NewTemporalSource anchors "now" at the newest deck in the index so the
// signal is reproducible regardless of wall-clock time. A zero halfLife
// disables decay inside the window.
func NewTemporalSource(index *DeckIndex, window, halfLife time.Duration) *TemporalSource {
	return &TemporalSource{
		index:    index,
		window:   window,
		halfLife: halfLife,
		now:      index.Latest(),
	}
}

func (s *TemporalSource) Name() Name { return Temporal }

func (s *TemporalSource) Lookup(query names.Key) map[names.Key]float64 {
	qDecks := s.index.byCard[query]
	if len(qDecks) == 0 {
		return map[names.Key]float64{}
	}
	out := make(map[names.Key]float64)
	for id := range qDecks {
		rec := s.index.decks[id]
		age := s.now.Sub(rec.date)
		if s.window > 0 && age > s.window {
			continue
		}
		weight := 1.0
		if s.halfLife > 0 && age > 0 {
			weight = math.Exp2(-float64(age) / float64(s.halfLife))
		}
		for cand := range rec.cards {
			if cand != query {
				out[cand] += weight
			}
		}
	}
	return out
}

func (s *TemporalSource) TopN(query names.Key, n int) []Scored {
	return RankTopN(s.Lookup(query), n)
}

func (s *TemporalSource) Vocabulary() []names.Key { return s.index.vocab }

func keysOf(m map[names.Key]map[int]struct{}) map[names.Key]struct{} {
	out := make(map[names.Key]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}
