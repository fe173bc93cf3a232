package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverIdentity(t *testing.T) {
	r := Build(BuildInput{
		SignalVocabularies: map[string][]string{
			"cooccurrence": {"Lightning Bolt", "Lava Spike", "Monastery Swiftspear"},
		},
	})

	// Every vocabulary key resolves to itself (its normalized form).
	for _, raw := range []string{"Lightning Bolt", "Lava Spike", "Monastery Swiftspear"} {
		assert.Equal(t, Normalize(raw), r.Resolve(raw))
		assert.True(t, r.Covered(r.Resolve(raw)), "vocabulary key %q must be covered", raw)
	}
}

func TestResolveVariantSpellings(t *testing.T) {
	r := Build(BuildInput{
		SignalVocabularies: map[string][]string{
			"cooccurrence": {"Lightning Bolt"},
		},
	})

	// Case, whitespace, and trailing-space variants all land on one key.
	canonical := r.Resolve("Lightning Bolt")
	assert.Equal(t, canonical, r.Resolve("lightning bolt "))
	assert.Equal(t, canonical, r.Resolve("LIGHTNING  BOLT"))
}

func TestResolverFuzzyMerge(t *testing.T) {
	// The misspelled variant appears once; the correct one twice across
	// vocabularies, so the correct spelling becomes the representative.
	r := Build(BuildInput{
		SignalVocabularies: map[string][]string{
			"cooccurrence":    {"Jace, the Mind Sculptor"},
			"graph_embedding": {"Jace, the Mind Sculptor", "Jace the Mindsculptor"},
		},
	})

	want := Normalize("Jace, the Mind Sculptor")
	assert.Equal(t, want, r.Resolve("Jace the Mindsculptor"))
	assert.Equal(t, want, r.Resolve("Jace, the Mind Sculptor"))
}

func TestResolverMaybeBand(t *testing.T) {
	// Two edits over twelve characters: similar enough to flag, not enough
	// to merge.
	a, b := "counterspell", "countirspoll"
	sim := Similarity(Normalize(a), Normalize(b))
	require.GreaterOrEqual(t, sim, 0.8)
	require.Less(t, sim, 0.9)

	r := Build(BuildInput{
		SignalVocabularies: map[string][]string{
			"cooccurrence": {a, b},
		},
	})

	// Not merged: each resolves to its own normalized form.
	assert.NotEqual(t, r.Resolve(a), r.Resolve(b))

	report := r.Report()
	require.Len(t, report.Maybe, 1)
	assert.InDelta(t, sim, report.Maybe[0].Similarity, 1e-12)
}

func TestResolverUncoveredLabels(t *testing.T) {
	r := Build(BuildInput{
		SignalVocabularies: map[string][]string{
			"cooccurrence": {"Lightning Bolt"},
		},
		Labels: []string{"Lightning Bolt", "Black Lotus"},
	})

	report := r.Report()
	require.Len(t, report.Uncovered, 1)
	assert.Equal(t, Normalize("Black Lotus"), report.Uncovered[0])
	assert.False(t, r.Covered(r.Resolve("Black Lotus")))
	assert.True(t, r.Covered(r.Resolve("Lightning Bolt")))
}

func TestResolverHintsWin(t *testing.T) {
	r := Build(BuildInput{
		SignalVocabularies: map[string][]string{
			"cooccurrence": {"Lightning Bolt"},
		},
		Hints: map[string]string{"Bolt": "Lightning Bolt"},
	})

	assert.Equal(t, Normalize("Lightning Bolt"), r.Resolve("Bolt"))
}

func TestResolveUnknownFallsBackToNormalized(t *testing.T) {
	r := Build(BuildInput{
		SignalVocabularies: map[string][]string{
			"cooccurrence": {"Lightning Bolt"},
		},
	})

	// Total: unmatched names resolve to their own normalized form and stay
	// distinct rather than merging into something else.
	assert.Equal(t, Key("storm crow"), r.Resolve("Storm Crow"))
}
