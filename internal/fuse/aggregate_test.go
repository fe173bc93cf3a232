package fuse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchforge/cardfuse/internal/names"
	"github.com/searchforge/cardfuse/internal/signal"
)

var testCandidates = []names.Key{"a", "b", "c"}

// Signal A covers everything; signal B has no opinion on "c".
func testScores() map[signal.Name]map[names.Key]float64 {
	return map[signal.Name]map[names.Key]float64{
		signal.Cooccurrence:   {"a": 1.0, "b": 0.5, "c": 0.9},
		signal.GraphEmbedding: {"a": 0.2, "b": 1.0},
	}
}

func equalWeights() Weights {
	return Weights{signal.Cooccurrence: 1, signal.GraphEmbedding: 1}
}

func mustAgg(t *testing.T, kind Kind) Aggregator {
	t.Helper()
	agg, err := New(kind, 0)
	require.NoError(t, err)
	return agg
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, WeightedSum, kind)

	_, err = ParseKind("borda")
	assert.Error(t, err)
}

func TestWeightedSumMissingIsZero(t *testing.T) {
	rows := mustAgg(t, WeightedSum).Aggregate(testCandidates, testScores(), equalWeights())
	byKey := indexRows(rows)

	// a: 0.5*1.0 + 0.5*0.2 = 0.6; b: 0.5*0.5 + 0.5*1.0 = 0.75
	// c: 0.5*0.9 + 0 = 0.45; missing contributes zero, weight mass not
	// redistributed, so thin coverage is penalized.
	assert.InDelta(t, 0.60, byKey["a"].Score, 1e-9)
	assert.InDelta(t, 0.75, byKey["b"].Score, 1e-9)
	assert.InDelta(t, 0.45, byKey["c"].Score, 1e-9)

	// The breakdown never fabricates an opinion for the missing signal.
	_, present := byKey["c"].Signals[signal.GraphEmbedding]
	assert.False(t, present)
}

func TestCombSUMSkipsMissing(t *testing.T) {
	rows := mustAgg(t, CombSUM).Aggregate(testCandidates, testScores(), equalWeights())
	byKey := indexRows(rows)

	// Same sums as WeightedSum for fully covered candidates; for "c" the
	// absent signal is excluded rather than zero-filled, which here gives
	// the same value but a different documented semantic.
	assert.InDelta(t, 0.45, byKey["c"].Score, 1e-9)
	assert.InDelta(t, 0.60, byKey["a"].Score, 1e-9)
}

func TestCombMAXAndMIN(t *testing.T) {
	maxRows := indexRows(mustAgg(t, CombMAX).Aggregate(testCandidates, testScores(), equalWeights()))
	minRows := indexRows(mustAgg(t, CombMIN).Aggregate(testCandidates, testScores(), equalWeights()))

	// a: weighted opinions are {0.5, 0.1}.
	assert.InDelta(t, 0.5, maxRows["a"].Score, 1e-9)
	assert.InDelta(t, 0.1, minRows["a"].Score, 1e-9)

	// c has one opinion; max and min agree on it.
	assert.InDelta(t, 0.45, maxRows["c"].Score, 1e-9)
	assert.InDelta(t, 0.45, minRows["c"].Score, 1e-9)
}

func TestAggregateTieBreakByKey(t *testing.T) {
	scores := map[signal.Name]map[names.Key]float64{
		signal.Cooccurrence: {"zebra": 0.5, "aardvark": 0.5},
	}
	rows := mustAgg(t, WeightedSum).Aggregate([]names.Key{"zebra", "aardvark"}, scores, Weights{signal.Cooccurrence: 1})

	require.Len(t, rows, 2)
	assert.Equal(t, names.Key("aardvark"), rows[0].Key)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, names.Key("zebra"), rows[1].Key)
	assert.Equal(t, 2, rows[1].Rank)
}

func TestAggregateTotalOrder(t *testing.T) {
	for _, kind := range []Kind{WeightedSum, RRF, CombSUM, CombMAX, CombMIN} {
		rows := mustAgg(t, kind).Aggregate(testCandidates, testScores(), equalWeights())
		require.Len(t, rows, len(testCandidates), "kind %s", kind)
		for i := 1; i < len(rows); i++ {
			prev, curr := rows[i-1], rows[i]
			ordered := prev.Score > curr.Score || (prev.Score == curr.Score && prev.Key < curr.Key)
			assert.True(t, ordered, "kind %s: rows %d/%d out of order", kind, i-1, i)
		}
	}
}

func TestRRFScoring(t *testing.T) {
	agg, err := New(RRF, 60)
	require.NoError(t, err)

	rows := indexRows(agg.Aggregate(testCandidates, testScores(), equalWeights()))

	// Cooccurrence ranks: a=1, c=2, b=3. Embedding ranks: b=1, a=2.
	assert.InDelta(t, 1.0/61+1.0/62, rows["a"].Score, 1e-9)
	assert.InDelta(t, 1.0/63+1.0/61, rows["b"].Score, 1e-9)
	assert.InDelta(t, 1.0/62, rows["c"].Score, 1e-9)
}

func TestRRFZeroWeightExcludesSignal(t *testing.T) {
	agg, err := New(RRF, 60)
	require.NoError(t, err)

	weights := Weights{signal.Cooccurrence: 1, signal.GraphEmbedding: 0}
	rows := indexRows(agg.Aggregate(testCandidates, testScores(), weights))

	// Only the co-occurrence list contributes.
	assert.InDelta(t, 1.0/61, rows["a"].Score, 1e-9)
	assert.InDelta(t, 1.0/63, rows["b"].Score, 1e-9)
}

func TestRRFLargerKFlattensGaps(t *testing.T) {
	gap := func(k int) float64 {
		agg, err := New(RRF, k)
		require.NoError(t, err)
		rows := agg.Aggregate(testCandidates, testScores(), equalWeights())
		return rows[0].Score - rows[len(rows)-1].Score
	}

	// Increasing k must shrink the spread between the best and worst rank.
	assert.Greater(t, gap(10), gap(60))
	assert.Greater(t, gap(60), gap(600))
}

func indexRows(rows []ScoredCandidate) map[names.Key]ScoredCandidate {
	out := make(map[names.Key]ScoredCandidate, len(rows))
	for _, r := range rows {
		out[r.Key] = r
	}
	return out
}
