// Package engine orchestrates the similarity pipeline: name resolution,
// per-signal lookup and normalization, candidate universe construction,
// aggregation, and the optional diversity pass. Per-query execution is
// stateless and idempotent; all mutable state is fixed at construction.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/searchforge/cardfuse/internal/fuse"
	"github.com/searchforge/cardfuse/internal/names"
	"github.com/searchforge/cardfuse/internal/signal"
	"github.com/searchforge/cardfuse/obs"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultTopK = 20
)

// MMRConfig controls the optional diversity rerank. Off by default.
type MMRConfig struct {
	Enabled bool    `koanf:"enabled"`
	Lambda  float64 `koanf:"lambda"`
}

// Config fixes one engine generation. Weights arrive as an explicit
// immutable value (typically from an offline grid-search document); changing
// them means constructing a new generation and swapping atomically.
type Config struct {
	Weights       fuse.Weights
	Aggregator    fuse.Kind
	RRFK          int
	TopNPerSignal int
	TopK          int
	MMR           MMRConfig
	CacheTTL      time.Duration
}

// Request is one similarity query.
type Request struct {
	Name string
	// TopK overrides the configured result size when positive.
	TopK int
	// MustInclude forces candidates into the scoring universe even when no
	// signal ranks them in its top-N.
	MustInclude []string
}

// Engine executes similarity queries against an immutable set of signals.
// Safe for concurrent use: nothing mutates after New except the cache,
// which synchronizes internally.
type Engine struct {
	resolver *names.Resolver
	catalog  *signal.Catalog
	weights  fuse.Weights
	agg      fuse.Aggregator
	cfg      Config
	coverage map[names.Key]struct{}
	simName  signal.Name
	cache    *Cache
	log      *slog.Logger
}

// New validates configuration and constructs a ready engine. Configuration
// errors are fatal here, before any query is served.
func New(catalog *signal.Catalog, resolver *names.Resolver, cfg Config, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}
	if catalog == nil || len(catalog.Active()) == 0 {
		return nil, ErrNoSignals
	}
	if resolver == nil {
		return nil, fmt.Errorf("%w: resolver required", ErrConfig)
	}
	if err := cfg.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if cfg.Aggregator == "" {
		cfg.Aggregator = fuse.WeightedSum
	}
	agg, err := fuse.New(cfg.Aggregator, cfg.RRFK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if cfg.MMR.Enabled && (cfg.MMR.Lambda < 0 || cfg.MMR.Lambda > 1) {
		return nil, fmt.Errorf("%w: mmr lambda %v outside [0,1]", ErrConfig, cfg.MMR.Lambda)
	}
	if cfg.TopNPerSignal <= 0 {
		cfg.TopNPerSignal = fuse.DefaultTopNPerSignal
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}

	coverage := make(map[names.Key]struct{})
	for _, name := range catalog.Active() {
		src, _ := catalog.Get(name)
		for _, k := range src.Vocabulary() {
			coverage[k] = struct{}{}
		}
		obs.SetSignalAvailable(string(name), true)
	}
	for name := range catalog.Absent() {
		obs.SetSignalAvailable(string(name), false)
	}

	// The diversity pass needs a pairwise similarity; prefer a dense
	// embedding signal, fall back to co-occurrence.
	simName := signal.Name("")
	for _, cand := range []signal.Name{signal.GraphEmbedding, signal.GNNEmbedding, signal.TextEmbedding, signal.Cooccurrence} {
		if _, ok := catalog.Get(cand); ok {
			simName = cand
			break
		}
	}

	return &Engine{
		resolver: resolver,
		catalog:  catalog,
		weights:  cfg.Weights,
		agg:      agg,
		cfg:      cfg,
		coverage: coverage,
		simName:  simName,
		cache:    NewCache(cfg.CacheTTL),
		log:      log,
	}, nil
}

// Resolver exposes the name resolver, mainly for debugging tooling.
func (e *Engine) Resolver() *names.Resolver { return e.resolver }

// Catalog exposes the signal catalog.
func (e *Engine) Catalog() *signal.Catalog { return e.catalog }

// Query runs the full pipeline for one card name. Identical requests against
// the same engine generation produce byte-identical results.
func (e *Engine) Query(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	topK := req.TopK
	if topK <= 0 {
		topK = e.cfg.TopK
	}

	resolved := e.resolver.Resolve(req.Name)
	ctx, end := obs.StartSpan(ctx, "engine.query",
		attribute.String("query.resolved", string(resolved)),
		attribute.String("aggregator", string(e.agg.Kind())),
	)
	defer end()

	res := &Result{
		QueryID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte("cardfuse:"+string(resolved))).String(),
		Query:         req.Name,
		Resolved:      resolved,
		Aggregator:    e.agg.Kind(),
		AbsentSignals: e.absentWeighted(),
	}

	if _, covered := e.coverage[resolved]; !covered {
		obs.ObserveQuery("unresolved", time.Since(start))
		return res, &UnresolvedQueryError{Raw: req.Name, Resolved: resolved}
	}

	mustInclude := make([]names.Key, 0, len(req.MustInclude))
	for _, raw := range req.MustInclude {
		if k := e.resolver.Resolve(raw); k != "" {
			mustInclude = append(mustInclude, k)
		}
	}

	cacheKey := buildCacheKey(resolved, topK, e.agg.Kind(), e.cfg.RRFK, e.weights, e.cfg.MMR, mustInclude)
	if cached, ok := e.cache.Get(cacheKey); ok {
		obs.ObserveQuery("cache_hit", time.Since(start))
		return cached, nil
	}

	normalized := make(map[signal.Name]map[names.Key]float64)
	raws := make(map[signal.Name]map[names.Key]float64)
	ranks := make(map[signal.Name]map[names.Key]int)
	topPerSignal := make(map[signal.Name][]signal.Scored)
	var noOpinion []signal.Name

	for _, name := range e.weights.Active() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, ok := e.catalog.Get(name)
		if !ok {
			continue
		}

		lookupStart := time.Now()
		_, endLookup := obs.StartSpan(ctx, "signal.lookup", attribute.String("signal", string(name)))
		raw := src.Lookup(resolved)
		endLookup()
		obs.RecordSignalLookup(string(name), time.Since(lookupStart), len(raw) == 0)

		if len(raw) == 0 {
			noOpinion = append(noOpinion, name)
			continue
		}

		ranked := signal.RankTopN(raw, len(raw))
		rankMap := make(map[names.Key]int, len(ranked))
		for i, sc := range ranked {
			rankMap[sc.Key] = i + 1
		}

		raws[name] = raw
		ranks[name] = rankMap
		normalized[name] = fuse.Normalize(raw)
		if len(ranked) > e.cfg.TopNPerSignal {
			ranked = ranked[:e.cfg.TopNPerSignal]
		}
		topPerSignal[name] = ranked
	}

	universe := fuse.Universe(resolved, topPerSignal, mustInclude)
	rows := e.agg.Aggregate(universe, normalized, e.weights)

	if e.cfg.MMR.Enabled {
		rows = fuse.MMRRerank(rows, e.pairSim(rows), e.cfg.MMR.Lambda, topK)
	} else if len(rows) > topK {
		rows = rows[:topK]
	}

	res.NoOpinion = noOpinion
	res.Candidates = e.explain(rows, raws, ranks)

	e.cache.Set(cacheKey, res)
	obs.ObserveQuery("ok", time.Since(start))
	return res, nil
}

// explain joins the fused rows with raw scores and per-signal ranks, and
// marks weighted signals with no opinion on each candidate as "no data".
func (e *Engine) explain(rows []fuse.ScoredCandidate, raws map[signal.Name]map[names.Key]float64, ranks map[signal.Name]map[names.Key]int) []Candidate {
	active := e.weights.Active()
	out := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		cand := Candidate{
			Key:     row.Key,
			Score:   row.Score,
			Rank:    row.Rank,
			Signals: make(map[signal.Name]SignalScore, len(row.Signals)),
		}
		for name, norm := range row.Signals {
			cand.Signals[name] = SignalScore{
				Raw:        raws[name][row.Key],
				Normalized: norm,
				Rank:       ranks[name][row.Key],
			}
		}
		for _, name := range active {
			if _, ok := cand.Signals[name]; !ok {
				cand.NoData = append(cand.NoData, name)
			}
		}
		sort.Slice(cand.NoData, func(i, j int) bool { return cand.NoData[i] < cand.NoData[j] })
		out = append(out, cand)
	}
	return out
}

// pairSim builds a pairwise similarity function over the rerank set by
// looking each candidate up once in the designated similarity signal.
func (e *Engine) pairSim(rows []fuse.ScoredCandidate) fuse.SimFunc {
	if e.simName == "" {
		return nil
	}
	src, ok := e.catalog.Get(e.simName)
	if !ok {
		return nil
	}
	byKey := make(map[names.Key]map[names.Key]float64, len(rows))
	for _, row := range rows {
		byKey[row.Key] = src.Lookup(row.Key)
	}
	return func(a, b names.Key) float64 {
		if m, ok := byKey[a]; ok {
			return m[b]
		}
		return 0
	}
}

// absentWeighted lists positively-weighted signals that are not active in
// this process generation, in stable order.
func (e *Engine) absentWeighted() []signal.Name {
	var out []signal.Name
	for _, name := range e.weights.Active() {
		if _, ok := e.catalog.Get(name); !ok {
			out = append(out, name)
		}
	}
	return out
}
