package signal

import (
	"fmt"
	"math"

	"github.com/searchforge/cardfuse/internal/names"
)

// EmbeddingSource scores candidates by cosine similarity over precomputed
// dense vectors. The same implementation backs the graph-walk, GNN, and
// rules-text embedding signals; only the artifact differs.
type EmbeddingSource struct {
	name    Name
	dim     int
	vectors map[names.Key][]float64
	vocab   []names.Key
}

// NewEmbeddingSource validates vector dimensions and pre-normalizes every
// vector to unit length so a lookup is a plain dot product.
func NewEmbeddingSource(name Name, vectors map[names.Key][]float64) (*EmbeddingSource, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%s: empty embedding table", name)
	}

	dim := 0
	normalized := make(map[names.Key][]float64, len(vectors))
	vocabSet := make(map[names.Key]struct{}, len(vectors))
	for key, vec := range vectors {
		if dim == 0 {
			dim = len(vec)
		}
		if len(vec) != dim || dim == 0 {
			return nil, fmt.Errorf("%s: vector for %q has dim %d, want %d", name, key, len(vec), dim)
		}
		unit := unitVector(vec)
		if unit == nil {
			// Zero vectors carry no signal; skip rather than divide by zero.
			continue
		}
		normalized[key] = unit
		vocabSet[key] = struct{}{}
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("%s: all vectors are zero", name)
	}

	return &EmbeddingSource{
		name:    name,
		dim:     dim,
		vectors: normalized,
		vocab:   sortedVocabulary(vocabSet),
	}, nil
}

func (s *EmbeddingSource) Name() Name { return s.name }

func (s *EmbeddingSource) Lookup(query names.Key) map[names.Key]float64 {
	qv, ok := s.vectors[query]
	if !ok {
		return map[names.Key]float64{}
	}
	out := make(map[names.Key]float64, len(s.vectors)-1)
	for key, vec := range s.vectors {
		if key == query {
			continue
		}
		out[key] = dot(qv, vec)
	}
	return out
}

func (s *EmbeddingSource) TopN(query names.Key, n int) []Scored {
	return RankTopN(s.Lookup(query), n)
}

func (s *EmbeddingSource) Vocabulary() []names.Key { return s.vocab }

// Dim returns the embedding dimensionality.
func (s *EmbeddingSource) Dim() int { return s.dim }

func unitVector(vec []float64) []float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return nil
	}
	inv := 1.0 / math.Sqrt(sum)
	unit := make([]float64, len(vec))
	for i, v := range vec {
		unit[i] = v * inv
	}
	return unit
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
