package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchforge/cardfuse/internal/engine"
	"github.com/searchforge/cardfuse/internal/fuse"
	"github.com/searchforge/cardfuse/internal/names"
	"github.com/searchforge/cardfuse/internal/signal"
	"github.com/searchforge/cardfuse/testutil"
)

func TestReadyzReportsSignals(t *testing.T) {
	fake := testutil.NewFakeSignal(signal.Cooccurrence).
		With("lightning bolt", map[names.Key]float64{"lava spike": 0.8})
	cat := signal.NewCatalog(fake)
	resolver := names.Build(names.BuildInput{SignalVocabularies: cat.Vocabularies()})

	eng, err := engine.New(cat, resolver, engine.Config{
		Weights: fuse.Weights{signal.Cooccurrence: 1},
	}, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	Readyz(engine.NewHolder(eng))(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, true, payload["ready"])
	assert.EqualValues(t, 1, payload["signals_active"])
}

func TestReadyzUnavailableWithoutEngine(t *testing.T) {
	rec := httptest.NewRecorder()
	Readyz(engine.NewHolder(nil))(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
