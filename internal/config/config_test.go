package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchforge/cardfuse/internal/fuse"
	"github.com/searchforge/cardfuse/internal/signal"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CACHE_TTL_MS", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, 20, cfg.Fusion.TopK)
	assert.Equal(t, 50, cfg.Fusion.TopNPerSignal)
	assert.Equal(t, 60, cfg.Fusion.RRFK)
	assert.Equal(t, 60000, cfg.CacheTTLMS)
}

func TestLoadFullDocument(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CACHE_TTL_MS", "")

	dir := t.TempDir()
	path := writeFile(t, dir, "cardfuse.yaml", `
artifacts:
  decks: /data/decks.json
  graph_embeddings: /data/graph.json
labels:
  - Lightning Bolt
  - Counterspell
signals:
  temporal_window_days: 365
  temporal_half_life_days: 180
  staple_threshold: 0.6
fusion:
  aggregator: rrf
  rrf_k: 30
  top_k: 10
  weights:
    cooccurrence: 1.0
    graph_embedding: 0.5
  mmr:
    enabled: true
    lambda: 0.7
cache_ttl_ms: 5000
port: 8081
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/decks.json", cfg.Artifacts.Decks)
	assert.Equal(t, []string{"Lightning Bolt", "Counterspell"}, cfg.Labels)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "rrf", cfg.Fusion.Aggregator)
	assert.Equal(t, 30, cfg.Fusion.RRFK)
	assert.Equal(t, 10, cfg.Fusion.TopK)
	assert.True(t, cfg.Fusion.MMR.Enabled)
	assert.InDelta(t, 0.7, cfg.Fusion.MMR.Lambda, 1e-9)
	assert.InDelta(t, 0.5, cfg.Fusion.Weights["graph_embedding"], 1e-9)

	bc := cfg.Bootstrap()
	assert.Equal(t, 365*24*time.Hour, bc.Options.TemporalWindow)
	assert.Equal(t, 180*24*time.Hour, bc.Options.TemporalHalfLife)
	assert.InDelta(t, 0.6, bc.Options.StapleThreshold, 1e-9)
	assert.Equal(t, fuse.RRF, bc.Engine.Aggregator)
	assert.Equal(t, 5*time.Second, bc.Engine.CacheTTL)
	assert.InDelta(t, 1.0, bc.Engine.Weights[signal.Cooccurrence], 1e-9)
}

func TestLoadWeightsFileOverrides(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CACHE_TTL_MS", "")

	dir := t.TempDir()
	weightsPath := writeFile(t, dir, "weights.yaml", `
cooccurrence: 2.0
functional_tags: 0.25
`)
	path := writeFile(t, dir, "cardfuse.yaml", `
fusion:
  weights:
    cooccurrence: 1.0
  weights_file: `+weightsPath+`
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	// The tuned document replaces the inline weights wholesale.
	assert.InDelta(t, 2.0, cfg.Fusion.Weights["cooccurrence"], 1e-9)
	assert.InDelta(t, 0.25, cfg.Fusion.Weights["functional_tags"], 1e-9)
	assert.Len(t, cfg.Fusion.Weights, 2)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("CACHE_TTL_MS", "1234")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, 1234, cfg.CacheTTLMS)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
