package engine

import (
	"log/slog"
	"sync/atomic"

	"github.com/searchforge/cardfuse/internal/names"
	"github.com/searchforge/cardfuse/internal/signal"
)

// BootstrapConfig describes one engine generation end to end: which
// artifacts to load, the label vocabulary to check coverage against, and
// the fusion configuration.
type BootstrapConfig struct {
	Paths   signal.Paths
	Labels  []string
	Options signal.Options
	Engine  Config
}

// Bootstrap walks the Uninitialized -> Loaded -> Ready transition: load
// every configured artifact (failures disable only the owning signal),
// build the alias table across all observed vocabularies, construct the
// signal catalog on canonical keys, then validate the fusion configuration.
// All slow work happens here, never on a live query.
func Bootstrap(cfg BootstrapConfig, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}

	arts := signal.Load(cfg.Paths)

	resolver := names.Build(names.BuildInput{
		SignalVocabularies: arts.Vocabularies(),
		Labels:             cfg.Labels,
		Hints:              arts.AliasHints,
	})
	report := resolver.Report()
	log.Info("alias table built",
		"vocabulary", report.Vocabulary,
		"aliases", report.Aliases,
		"uncovered_labels", len(report.Uncovered),
		"maybe_pairs", len(report.Maybe),
	)
	for _, key := range report.Uncovered {
		log.Warn("label has no signal coverage", "key", string(key))
	}

	catalog := signal.BuildCatalog(arts, resolver.Resolve, cfg.Options, log)

	return New(catalog, resolver, cfg.Engine, log)
}

// Holder publishes the current engine generation. Reloading tuned weights
// or refreshed artifacts means bootstrapping a new generation and swapping;
// in-flight queries keep the generation they started with.
type Holder struct {
	current atomic.Pointer[Engine]
}

// NewHolder wraps an initial generation.
func NewHolder(e *Engine) *Holder {
	h := &Holder{}
	h.current.Store(e)
	return h
}

// Load returns the current generation.
func (h *Holder) Load() *Engine {
	return h.current.Load()
}

// Swap publishes a new generation atomically.
func (h *Holder) Swap(e *Engine) {
	h.current.Store(e)
}
