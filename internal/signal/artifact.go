package signal

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/searchforge/cardfuse/internal/names"
)

// Paths locates the precomputed artifacts consumed at startup. Empty paths
// mean the owning signals are not configured for this process.
type Paths struct {
	GraphEmbeddings string `koanf:"graph_embeddings"`
	GNNEmbeddings   string `koanf:"gnn_embeddings"`
	TextEmbeddings  string `koanf:"text_embeddings"`
	Decks           string `koanf:"decks"`
	Tags            string `koanf:"tags"`
	AliasHints      string `koanf:"alias_hints"`
}

// Artifacts holds raw artifact contents keyed by the original spellings.
// Canonicalization happens later, once the resolver has seen every
// vocabulary. Failures holds the load error per owning signal; a failed
// artifact disables its signals and nothing else.
type Artifacts struct {
	GraphVectors map[string][]float64
	GNNVectors   map[string][]float64
	TextVectors  map[string][]float64
	Decks        []Deck
	Tags         map[string][]string
	AliasHints   map[string]string

	Failures map[Name]error
}

// Load reads every configured artifact. It never fails as a whole: each
// artifact that cannot be read or parsed records a failure against the
// signals it backs.
func Load(paths Paths) *Artifacts {
	arts := &Artifacts{Failures: make(map[Name]error)}

	if paths.GraphEmbeddings != "" {
		if vecs, err := loadVectors(paths.GraphEmbeddings); err != nil {
			arts.Failures[GraphEmbedding] = err
		} else {
			arts.GraphVectors = vecs
		}
	}
	if paths.GNNEmbeddings != "" {
		if vecs, err := loadVectors(paths.GNNEmbeddings); err != nil {
			arts.Failures[GNNEmbedding] = err
		} else {
			arts.GNNVectors = vecs
		}
	}
	if paths.TextEmbeddings != "" {
		if vecs, err := loadVectors(paths.TextEmbeddings); err != nil {
			arts.Failures[TextEmbedding] = err
		} else {
			arts.TextVectors = vecs
		}
	}
	if paths.Decks != "" {
		if decks, err := loadDecks(paths.Decks); err != nil {
			for _, n := range []Name{Cooccurrence, Sideboard, Temporal, Archetype, Format} {
				arts.Failures[n] = err
			}
		} else {
			arts.Decks = decks
		}
	}
	if paths.Tags != "" {
		if tags, err := loadTags(paths.Tags); err != nil {
			arts.Failures[FunctionalTags] = err
		} else {
			arts.Tags = tags
		}
	}
	if paths.AliasHints != "" {
		// Hints are advisory; a broken hints file is ignored rather than
		// tied to any signal.
		if hints, err := loadHints(paths.AliasHints); err == nil {
			arts.AliasHints = hints
		}
	}

	return arts
}

// Vocabularies returns the raw name vocabulary of every loaded artifact,
// keyed the way the resolver build expects.
func (a *Artifacts) Vocabularies() map[string][]string {
	out := make(map[string][]string)
	if len(a.GraphVectors) > 0 {
		out[string(GraphEmbedding)] = stringKeys(a.GraphVectors)
	}
	if len(a.GNNVectors) > 0 {
		out[string(GNNEmbedding)] = stringKeys(a.GNNVectors)
	}
	if len(a.TextVectors) > 0 {
		out[string(TextEmbedding)] = stringKeys(a.TextVectors)
	}
	if len(a.Tags) > 0 {
		raws := make([]string, 0, len(a.Tags))
		for raw := range a.Tags {
			raws = append(raws, raw)
		}
		sort.Strings(raws)
		out[string(FunctionalTags)] = raws
	}
	if len(a.Decks) > 0 {
		seen := make(map[string]struct{})
		var raws []string
		for _, d := range a.Decks {
			for _, raw := range append(append([]string{}, d.Mainboard...), d.Sideboard...) {
				if _, ok := seen[raw]; !ok {
					seen[raw] = struct{}{}
					raws = append(raws, raw)
				}
			}
		}
		sort.Strings(raws)
		out[string(Cooccurrence)] = raws
	}
	return out
}

func loadVectors(path string) (map[string][]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var vecs map[string][]float64
	if err := json.Unmarshal(raw, &vecs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("parse %s: empty embedding table", path)
	}
	return vecs, nil
}

func loadDecks(path string) ([]Deck, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var decks []Deck
	if err := json.Unmarshal(raw, &decks); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(decks) == 0 {
		return nil, fmt.Errorf("parse %s: no decks", path)
	}
	return decks, nil
}

func loadTags(path string) (map[string][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var tags map[string][]string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("parse %s: empty tag table", path)
	}
	return tags, nil
}

func loadHints(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var hints map[string]string
	if err := json.Unmarshal(raw, &hints); err != nil {
		return nil, err
	}
	return hints, nil
}

// CanonicalizeVectors rewrites a raw-name vector table onto canonical keys.
// When two raw spellings collapse into one key the lexicographically first
// spelling wins, keeping the result order-independent.
func CanonicalizeVectors(raw map[string][]float64, resolve func(string) names.Key) map[names.Key][]float64 {
	spellings := stringKeys(raw)
	out := make(map[names.Key][]float64, len(raw))
	for _, s := range spellings {
		k := resolve(s)
		if k == "" {
			continue
		}
		if _, taken := out[k]; !taken {
			out[k] = raw[s]
		}
	}
	return out
}

// CanonicalizeTags rewrites a raw-name tag table onto canonical keys,
// unioning tag sets when spellings collapse.
func CanonicalizeTags(raw map[string][]string, resolve func(string) names.Key) map[names.Key][]string {
	out := make(map[names.Key][]string, len(raw))
	seen := make(map[names.Key]map[string]struct{}, len(raw))
	for _, s := range stringKeysTags(raw) {
		k := resolve(s)
		if k == "" {
			continue
		}
		if seen[k] == nil {
			seen[k] = make(map[string]struct{})
		}
		for _, t := range raw[s] {
			if _, dup := seen[k][t]; !dup {
				seen[k][t] = struct{}{}
				out[k] = append(out[k], t)
			}
		}
	}
	for k := range out {
		sort.Strings(out[k])
	}
	return out
}

func stringKeys(m map[string][]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func stringKeysTags(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
