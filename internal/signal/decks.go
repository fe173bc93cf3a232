package signal

import (
	"fmt"
	"time"

	"github.com/searchforge/cardfuse/internal/names"
)

// Deck is one tournament deck list as delivered by the scraping collaborators.
// Card names are raw strings; the index canonicalizes them on construction.
type Deck struct {
	ID        string    `json:"id"`
	Format    string    `json:"format"`
	Archetype string    `json:"archetype"`
	Date      time.Time `json:"date"`
	Mainboard []string  `json:"mainboard"`
	Sideboard []string  `json:"sideboard"`
}

type deckRecord struct {
	format    string
	archetype string
	date      time.Time
	cards     map[names.Key]struct{}
	side      map[names.Key]struct{}
}

// DeckIndex is the shared card -> deck-set inverted index behind every
// co-occurrence-flavored signal. Built once at load, immutable afterwards.
type DeckIndex struct {
	decks []deckRecord

	byCard     map[names.Key]map[int]struct{}
	sideByCard map[names.Key]map[int]struct{}

	byArchetype map[string][]int
	byFormat    map[string][]int

	latest time.Time
	vocab  []names.Key
}

// NewDeckIndex canonicalizes every card name through resolve and builds the
// inverted indexes. Decks with no resolvable cards are dropped.
func NewDeckIndex(decks []Deck, resolve func(string) names.Key) (*DeckIndex, error) {
	if len(decks) == 0 {
		return nil, fmt.Errorf("deck index: no decks")
	}
	if resolve == nil {
		resolve = func(raw string) names.Key { return names.Normalize(raw) }
	}

	idx := &DeckIndex{
		byCard:      make(map[names.Key]map[int]struct{}),
		sideByCard:  make(map[names.Key]map[int]struct{}),
		byArchetype: make(map[string][]int),
		byFormat:    make(map[string][]int),
	}
	vocabSet := make(map[names.Key]struct{})

	for _, d := range decks {
		rec := deckRecord{
			format:    d.Format,
			archetype: d.Archetype,
			date:      d.Date,
			cards:     make(map[names.Key]struct{}, len(d.Mainboard)+len(d.Sideboard)),
			side:      make(map[names.Key]struct{}, len(d.Sideboard)),
		}
		for _, raw := range d.Mainboard {
			if k := resolve(raw); k != "" {
				rec.cards[k] = struct{}{}
			}
		}
		for _, raw := range d.Sideboard {
			if k := resolve(raw); k != "" {
				rec.cards[k] = struct{}{}
				rec.side[k] = struct{}{}
			}
		}
		if len(rec.cards) == 0 {
			continue
		}

		id := len(idx.decks)
		idx.decks = append(idx.decks, rec)

		for k := range rec.cards {
			if idx.byCard[k] == nil {
				idx.byCard[k] = make(map[int]struct{})
			}
			idx.byCard[k][id] = struct{}{}
			vocabSet[k] = struct{}{}
		}
		for k := range rec.side {
			if idx.sideByCard[k] == nil {
				idx.sideByCard[k] = make(map[int]struct{})
			}
			idx.sideByCard[k][id] = struct{}{}
		}
		if rec.archetype != "" {
			idx.byArchetype[rec.archetype] = append(idx.byArchetype[rec.archetype], id)
		}
		if rec.format != "" {
			idx.byFormat[rec.format] = append(idx.byFormat[rec.format], id)
		}
		if rec.date.After(idx.latest) {
			idx.latest = rec.date
		}
	}

	if len(idx.decks) == 0 {
		return nil, fmt.Errorf("deck index: no resolvable decks")
	}
	idx.vocab = sortedVocabulary(vocabSet)
	return idx, nil
}

// Decks returns the number of indexed decks.
func (x *DeckIndex) Decks() int { return len(x.decks) }

// Latest returns the most recent deck date, used as the temporal reference.
func (x *DeckIndex) Latest() time.Time { return x.latest }

// Vocabulary lists every canonical key seen in any deck.
func (x *DeckIndex) Vocabulary() []names.Key { return x.vocab }

// jaccard computes |a∩b| / |a∪b| over deck-id sets.
func jaccard(a, b map[int]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	inter := 0
	for id := range small {
		if _, ok := large[id]; ok {
			inter++
		}
	}
	if inter == 0 {
		return 0.0
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}

// cooccurring collects every other card sharing at least one of the query's
// decks, walking the query's deck records rather than the full vocabulary so
// sparse queries stay cheap.
func (x *DeckIndex) cooccurring(query names.Key, qDecks map[int]struct{}, sideOnly bool) map[names.Key]struct{} {
	if len(qDecks) == 0 {
		return nil
	}
	out := make(map[names.Key]struct{})
	for id := range qDecks {
		section := x.decks[id].cards
		if sideOnly {
			section = x.decks[id].side
		}
		for key := range section {
			if key != query {
				out[key] = struct{}{}
			}
		}
	}
	return out
}
