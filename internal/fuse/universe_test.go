package fuse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/searchforge/cardfuse/internal/names"
	"github.com/searchforge/cardfuse/internal/signal"
)

func TestUniverseUnion(t *testing.T) {
	perSignal := map[signal.Name][]signal.Scored{
		signal.Cooccurrence:   {{Key: "a", Score: 0.9}, {Key: "b", Score: 0.5}},
		signal.GraphEmbedding: {{Key: "b", Score: 0.8}, {Key: "c", Score: 0.4}},
	}

	universe := Universe("query", perSignal, nil)
	assert.Equal(t, []names.Key{"a", "b", "c"}, universe)
}

func TestUniverseExcludesQuery(t *testing.T) {
	perSignal := map[signal.Name][]signal.Scored{
		signal.Cooccurrence: {{Key: "query", Score: 1.0}, {Key: "a", Score: 0.5}},
	}

	universe := Universe("query", perSignal, []names.Key{"query"})
	assert.Equal(t, []names.Key{"a"}, universe)
}

func TestUniverseMustInclude(t *testing.T) {
	perSignal := map[signal.Name][]signal.Scored{
		signal.Cooccurrence: {{Key: "a", Score: 0.5}},
	}

	universe := Universe("query", perSignal, []names.Key{"forced", ""})
	assert.Equal(t, []names.Key{"a", "forced"}, universe)
}
