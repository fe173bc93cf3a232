package signal

import (
	"fmt"

	"github.com/searchforge/cardfuse/internal/names"
)

// TagSource scores pairs by Jaccard overlap of rule-derived functional tag
// sets ("removal", "ramp", "counterspell", ...). Cards that do the same job
// score high even with zero play overlap.
type TagSource struct {
	tags  map[names.Key]map[string]struct{}
	vocab []names.Key
}

func NewTagSource(table map[names.Key][]string) (*TagSource, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("%s: empty tag table", FunctionalTags)
	}
	tags := make(map[names.Key]map[string]struct{}, len(table))
	vocabSet := make(map[names.Key]struct{}, len(table))
	for key, list := range table {
		if len(list) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(list))
		for _, t := range list {
			set[t] = struct{}{}
		}
		tags[key] = set
		vocabSet[key] = struct{}{}
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%s: no tagged cards", FunctionalTags)
	}
	return &TagSource{tags: tags, vocab: sortedVocabulary(vocabSet)}, nil
}

func (s *TagSource) Name() Name { return FunctionalTags }

func (s *TagSource) Lookup(query names.Key) map[names.Key]float64 {
	qTags, ok := s.tags[query]
	if !ok {
		return map[names.Key]float64{}
	}
	out := make(map[names.Key]float64)
	for cand, cTags := range s.tags {
		if cand == query {
			continue
		}
		if score := tagJaccard(qTags, cTags); score > 0 {
			out[cand] = score
		}
	}
	return out
}

func (s *TagSource) TopN(query names.Key, n int) []Scored {
	return RankTopN(s.Lookup(query), n)
}

func (s *TagSource) Vocabulary() []names.Key { return s.vocab }

func tagJaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	inter := 0
	for t := range small {
		if _, ok := large[t]; ok {
			inter++
		}
	}
	if inter == 0 {
		return 0.0
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}
