package signal

import (
	"log/slog"
	"sort"
	"time"

	"github.com/searchforge/cardfuse/internal/names"
)

// Options tunes the deck-backed signals.
type Options struct {
	TemporalWindow   time.Duration
	TemporalHalfLife time.Duration
	StapleThreshold  float64
}

// Catalog is the set of signals that actually came up for this process.
// A signal whose artifact failed to load is simply not in Active; the
// failure is logged once here and never surfaces per query.
type Catalog struct {
	active map[Name]Source
	absent map[Name]error
}

// BuildCatalog constructs every signal whose artifact loaded, canonicalizing
// artifact names through resolve. Construction failures demote the signal to
// absent, exactly like a load failure.
func BuildCatalog(arts *Artifacts, resolve func(string) names.Key, opts Options, log *slog.Logger) *Catalog {
	if log == nil {
		log = slog.Default()
	}
	cat := &Catalog{
		active: make(map[Name]Source),
		absent: make(map[Name]error),
	}
	for n, err := range arts.Failures {
		cat.absent[n] = err
	}

	embed := func(name Name, raw map[string][]float64) {
		if len(raw) == 0 {
			return
		}
		src, err := NewEmbeddingSource(name, CanonicalizeVectors(raw, resolve))
		if err != nil {
			cat.absent[name] = err
			return
		}
		cat.active[name] = src
	}
	embed(GraphEmbedding, arts.GraphVectors)
	embed(GNNEmbedding, arts.GNNVectors)
	embed(TextEmbedding, arts.TextVectors)

	if len(arts.Tags) > 0 {
		if src, err := NewTagSource(CanonicalizeTags(arts.Tags, resolve)); err != nil {
			cat.absent[FunctionalTags] = err
		} else {
			cat.active[FunctionalTags] = src
		}
	}

	if len(arts.Decks) > 0 {
		index, err := NewDeckIndex(arts.Decks, resolve)
		if err != nil {
			for _, n := range []Name{Cooccurrence, Sideboard, Temporal, Archetype, Format} {
				cat.absent[n] = err
			}
		} else {
			cat.active[Cooccurrence] = NewCooccurrenceSource(index)
			cat.active[Sideboard] = NewSideboardSource(index)
			cat.active[Temporal] = NewTemporalSource(index, opts.TemporalWindow, opts.TemporalHalfLife)
			cat.active[Archetype] = NewArchetypeSource(index, opts.StapleThreshold)
			cat.active[Format] = NewFormatSource(index)
		}
	}

	for _, n := range All() {
		if err, ok := cat.absent[n]; ok {
			log.Warn("signal unavailable", "signal", string(n), "err", err)
		}
	}

	return cat
}

// NewCatalog wraps pre-built sources, mainly for tests and embedding the
// engine as a library.
func NewCatalog(sources ...Source) *Catalog {
	cat := &Catalog{
		active: make(map[Name]Source, len(sources)),
		absent: make(map[Name]error),
	}
	for _, s := range sources {
		cat.active[s.Name()] = s
	}
	return cat
}

// Get returns the named source if it is active.
func (c *Catalog) Get(n Name) (Source, bool) {
	s, ok := c.active[n]
	return s, ok
}

// Active lists loaded signals in stable order.
func (c *Catalog) Active() []Name {
	out := make([]Name, 0, len(c.active))
	for _, n := range All() {
		if _, ok := c.active[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Absent lists signals whose artifacts failed to load or were never
// configured to begin with, with the recorded reason where one exists.
func (c *Catalog) Absent() map[Name]error {
	out := make(map[Name]error, len(c.absent))
	for n, err := range c.absent {
		out[n] = err
	}
	return out
}

// Vocabularies returns raw canonical vocabularies per active signal, the
// shape the resolver build consumes.
func (c *Catalog) Vocabularies() map[string][]string {
	out := make(map[string][]string, len(c.active))
	for n, src := range c.active {
		vocab := src.Vocabulary()
		raws := make([]string, len(vocab))
		for i, k := range vocab {
			raws[i] = string(k)
		}
		sort.Strings(raws)
		out[string(n)] = raws
	}
	return out
}
